// Package version carries build-time version metadata, injected via
// -ldflags the way the donor codebase's own pkg/version does.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables, overridable with:
//
//	-ldflags "-X github.com/ditef/router/pkg/version.GitVersion=v1.2.3 ..."
var (
	GitVersion = "v0.0.0-dev"
	GitCommit  = "unknown"
	BuildDate  = "unknown"
)

// Info is the version payload served at GET /version.
type Info struct {
	GitVersion string `json:"gitVersion"`
	GitCommit  string `json:"gitCommit"`
	BuildDate  string `json:"buildDate"`
	GoVersion  string `json:"goVersion"`
	Compiler   string `json:"compiler"`
	Platform   string `json:"platform"`
}

// Get returns the current build's version info.
func Get() Info {
	return Info{
		GitVersion: GitVersion,
		GitCommit:  GitCommit,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
		Compiler:   runtime.Compiler,
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String renders a short human-readable version line.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", i.GitVersion, i.GitCommit, i.BuildDate, i.GoVersion)
}
