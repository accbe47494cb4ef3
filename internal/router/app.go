package router

import (
	"fmt"

	genericapiserver "github.com/ditef/router/internal/pkg/server"
	"github.com/ditef/router/internal/router/config"
	"github.com/ditef/router/internal/router/options"
	"github.com/ditef/router/pkg/app"
	"github.com/ditef/router/pkg/logger"
)

const commandDesc = `The ditef router: an in-memory broker between task producers and workers.

It accepts work over HTTP, hands it to the first worker that asks for a
compatible task type, tracks liveness via heartbeats, and delivers the
worker's result back to the producer that submitted it.`

// NewApp creates an App object with default parameters.
func NewApp(basename string) *app.App {
	opts := options.NewOptions()
	application := app.NewApp("ditef router",
		basename,
		app.WithOptions(opts),
		app.WithDescription(commandDesc),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)

	return application
}

func run(opts *options.Options) app.RunFunc {
	return func(basename string) error {
		logger.InitLog()
		defer logger.FlushLog()

		fmt.Print(banner())

		genericapiserver.LoadConfig(opts.Config, "router")

		cfg, err := config.CreateConfigFromOptions(opts)
		if err != nil {
			return err
		}

		return Run(cfg)
	}
}
