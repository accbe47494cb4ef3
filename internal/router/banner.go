package router

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/ditef/router/pkg/version"
)

const bannerText = `
 ____   ___  _   _ _____ _____ ____
|  _ \ / _ \| | | |_   _| ____|  _ \
| |_) | | | | | | | | | |  _| | |_) |
|  _ <| |_| | |_| | | | | |___|  _ <
|_| \_\\___/ \___/  |_| |_____|_| \_\
`

// banner renders the router's startup banner, mirroring the donor
// hivctl client's ASCII-art banner (internal/hivctl/banner.go) adapted
// for the router server binary.
func banner() string {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	return fmt.Sprintf("%s\n  %s\n", cyan(bannerText), version.Get().String())
}
