package options

import (
	"encoding/json"

	genericoptions "github.com/ditef/router/internal/pkg/options"
	"github.com/ditef/router/internal/pkg/server"
	"github.com/ditef/router/pkg/utils/cliflag"
)

// Options holds the router's full set of CLI/env/file configurable
// parameters: the three flags spec.md names (--host, --port,
// --heartbeat-timeout) plus the server mode/healthz knobs the donor's
// generic server exposes on every service it hosts.
type Options struct {
	GenericServerRunOptions *genericoptions.ServerRunOptions `json:"server"    mapstructure:"server"`
	HeartbeatOptions        *genericoptions.HeartbeatOptions `json:"heartbeat" mapstructure:"heartbeat"`

	// Config points at an optional config file; when set, router
	// watches it and hot-reloads the heartbeat timeout on change.
	Config string `json:"-" mapstructure:"-"`
}

// NewOptions creates a new Options object with default parameters.
func NewOptions() *Options {
	return &Options{
		GenericServerRunOptions: genericoptions.NewServerRunOptions(),
		HeartbeatOptions:        genericoptions.NewHeartbeatOptions(),
	}
}

func (o *Options) Flags() (fss cliflag.NamedFlagSets) {
	o.GenericServerRunOptions.AddFlags(fss.FlagSet("server"))
	o.HeartbeatOptions.AddFlags(fss.FlagSet("broker"))

	global := fss.FlagSet("global")
	global.StringVar(&o.Config, "config", o.Config,
		"Path to a config file. When set, the heartbeat timeout is hot-reloaded on change.")

	return fss
}

// ApplyTo applies the run options to the given server config.
func (o *Options) ApplyTo(c *server.Config) error {
	return o.GenericServerRunOptions.ApplyTo(c)
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)

	return string(data)
}

// Complete sets any defaults that depend on flags already being parsed.
func (o *Options) Complete() error {
	return nil
}
