package options

import (
	"fmt"
	"net"

	"github.com/spf13/pflag"

	"github.com/ditef/router/internal/pkg/server"
)

// ServerRunOptions contains the options while running the router's
// generic api server.
type ServerRunOptions struct {
	Mode            string `json:"mode"            mapstructure:"mode"`
	Healthz         bool   `json:"healthz"         mapstructure:"healthz"`
	BindAddress     string `json:"host"            mapstructure:"host"`
	BindPort        int    `json:"port"            mapstructure:"port"`
	EnableProfiling bool   `json:"profiling"       mapstructure:"profiling"`
}

// NewServerRunOptions creates a new ServerRunOptions object with default parameters.
func NewServerRunOptions() *ServerRunOptions {
	defaults := server.NewConfig()

	return &ServerRunOptions{
		Mode:            defaults.Mode,
		Healthz:         defaults.Healthz,
		BindAddress:     defaults.Serving.BindAddress,
		BindPort:        defaults.Serving.BindPort,
		EnableProfiling: defaults.EnableProfiling,
	}
}

// ApplyTo applies the run options to the method receiver and returns self.
func (s *ServerRunOptions) ApplyTo(c *server.Config) error {
	c.Mode = s.Mode
	c.Healthz = s.Healthz
	c.Serving.BindAddress = s.BindAddress
	c.Serving.BindPort = s.BindPort
	c.EnableProfiling = s.EnableProfiling

	return nil
}

// Validate checks validation of ServerRunOptions.
func (s *ServerRunOptions) Validate() []error {
	var errs []error

	if s.BindAddress != "*" {
		if ip := net.ParseIP(s.BindAddress); ip == nil {
			errs = append(errs, fmt.Errorf("--host %q is not \"*\" or a valid IP address", s.BindAddress))
		}
	}

	if s.BindPort < 1 || s.BindPort > 65535 {
		errs = append(errs, fmt.Errorf("--port %v must be between 1 and 65535, inclusive", s.BindPort))
	}

	return errs
}

// AddFlags adds flags for the server to the specified FlagSet.
func (s *ServerRunOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&s.BindAddress, "host", s.BindAddress,
		"The interface to listen on. \"*\" binds every interface.")
	fs.IntVar(&s.BindPort, "port", s.BindPort, "The port to listen on.")
	fs.StringVar(&s.Mode, "server.mode", s.Mode, ""+
		"Start the server in a specified server mode. Supported server mode: debug, test, release.")
	fs.BoolVar(&s.Healthz, "server.healthz", s.Healthz, ""+
		"Add self readiness check and install /healthz router.")
	fs.BoolVar(&s.EnableProfiling, "profiling", s.EnableProfiling, ""+
		"Enable pprof endpoints for runtime profiling of the heartbeat-timer population.")
}
