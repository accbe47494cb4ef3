package config

import (
	"github.com/ditef/router/internal/router/options"
)

// Config is the running configuration structure of the router service.
type Config struct {
	*options.Options
}

// CreateConfigFromOptions creates a running configuration instance based
// on the already-validated and -completed Options.
func CreateConfigFromOptions(opts *options.Options) (*Config, error) {
	return &Config{opts}, nil
}
