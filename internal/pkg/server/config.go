// Package server builds the router's gin-based HTTP server: a
// GenericAPIServer carrying the ambient /healthz and /version routes
// every service in this style exposes, plus whatever routes the
// caller registers on top of it (the router's task/result endpoints).
package server

import (
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"

	"github.com/ditef/router/pkg/logger"
	"github.com/ditef/router/pkg/utils/homedir"
)

const (
	// RecommendedHomeDir defines the default directory used to place all generic service configurations.
	RecommendedHomeDir = ".router"

	// RecommendedEnvPrefix defines the ENV prefix used by all generic service.
	RecommendedEnvPrefix = "router"
)

// Config is a structure used to configure a GenericAPIServer.
// Its members are sorted roughly in order of importance for composers.
type Config struct {
	Serving         *ServingInfo
	Mode            string
	Healthz         bool
	EnableProfiling bool
}

// ServingInfo holds configuration
type ServingInfo struct {
	BindAddress string
	BindPort    int
}

// Address joins host and port into an address string, like "0.0.0.0:8080".
// BindAddress "*" (the router's wildcard-all-interfaces convention) binds
// every interface, the same as an empty host passed to net.Listen.
func (s *ServingInfo) Address() string {
	host := s.BindAddress
	if host == "*" {
		host = ""
	}
	return net.JoinHostPort(host, strconv.Itoa(s.BindPort))
}

func NewConfig() *Config {
	return &Config{
		Serving: &ServingInfo{
			BindAddress: "*",
			BindPort:    8080,
		},
		Healthz:         true,
		Mode:            gin.ReleaseMode,
		EnableProfiling: false,
	}
}

// CompletedConfig is the completed configuration for GenericAPIServer.
type CompletedConfig struct {
	*Config
}

// Complete fills in any fields not set that are required to have valid data and can be derived
// from other fields. If you're going to `ApplyOptions`, do that first. It's mutating the receiver.
func (c *Config) Complete() CompletedConfig {
	return CompletedConfig{c}
}

// New returns a new instance of GenericAPIServer from the given config.
func (c CompletedConfig) New() (*GenericAPIServer, error) {
	// setMode before gin.New()
	gin.SetMode(c.Mode)

	s := &GenericAPIServer{
		ServingInfo:     c.Serving,
		healthz:         c.Healthz,
		enableProfiling: c.EnableProfiling,
		Engine:          gin.New(),
	}

	initGenericAPIServer(s)

	return s, nil
}

// LoadConfig reads in config file and ENV variables if set.
func LoadConfig(cfg string, defaultName string) {
	if cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(homedir.HomeDir(), RecommendedHomeDir))
		viper.AddConfigPath("/etc/router")
		viper.SetConfigName(defaultName)
	}

	// Use config file from the flag.
	viper.SetConfigType("json")              // set the type of the configuration to json.
	viper.AutomaticEnv()                     // read in environment variables that match.
	viper.SetEnvPrefix(RecommendedEnvPrefix) // set ENVIRONMENT variables prefix to router.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		logger.WarnX("config", "no config file loaded, using flags/env/defaults only: %s", err.Error())
	}
}
