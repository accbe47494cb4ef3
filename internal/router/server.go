package router

import (
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/ditef/router/internal/broker"
	genericapiserver "github.com/ditef/router/internal/pkg/server"
	"github.com/ditef/router/internal/queue"
	"github.com/ditef/router/internal/registry"
	"github.com/ditef/router/internal/router/api"
	"github.com/ditef/router/internal/router/config"
	"github.com/ditef/router/pkg/logger"
	"github.com/ditef/router/pkg/shutdown"
	"github.com/ditef/router/pkg/shutdown/posixsignal"
)

// apiServer wires the in-memory broker to the gin-based generic server
// and the POSIX-signal-driven graceful shutdown coordinator.
type apiServer struct {
	gs               *shutdown.GracefulShutdown
	genericAPIServer *genericapiserver.GenericAPIServer
	registry         *registry.TaskRegistry
}

type preparedAPIServer struct {
	*apiServer
}

func createAPIServer(cfg *config.Config) (*apiServer, error) {
	gs := shutdown.New()
	gs.AddShutdownManager(posixsignal.NewPosixSignalManager())

	genericConfig, err := buildGenericConfig(cfg)
	if err != nil {
		return nil, err
	}

	genericServer, err := genericConfig.Complete().New()
	if err != nil {
		return nil, err
	}

	q := queue.New()
	reg := registry.New(q, cfg.HeartbeatOptions.Timeout())
	b := broker.New(q, reg)

	handlers := api.New(b)
	handlers.Register(genericServer.Engine)

	watchHeartbeatTimeout(reg)

	server := &apiServer{
		gs:               gs,
		genericAPIServer: genericServer,
		registry:         reg,
	}

	return server, nil
}

func (s *apiServer) PrepareRun() preparedAPIServer {
	s.gs.AddShutdownCallback(shutdown.Func(func(string) error {
		s.registry.Stop()
		s.genericAPIServer.Close()
		return nil
	}))
	return preparedAPIServer{s}
}

func (s preparedAPIServer) Run() error {
	if err := s.gs.Start(); err != nil {
		log.Fatalf("start shutdown manager failed: %s", err.Error())
	}

	return s.genericAPIServer.Run()
}

// watchHeartbeatTimeout hot-reloads reg's heartbeat timeout from the
// config file's "heartbeat-timeout" key whenever that file changes on
// disk. A no-op when no config file was loaded. Host and port are not
// hot-reloadable since the listener is already bound.
func watchHeartbeatTimeout(reg *registry.TaskRegistry) {
	if viper.ConfigFileUsed() == "" {
		return
	}

	viper.OnConfigChange(func(_ fsnotify.Event) {
		if !viper.IsSet("heartbeat-timeout") {
			return
		}
		seconds := viper.GetInt("heartbeat-timeout")
		if seconds <= 0 {
			logger.WarnX("config", "ignoring non-positive heartbeat-timeout reload value %d", seconds)
			return
		}
		reg.SetTimeout(time.Duration(seconds) * time.Second)
		logger.InfoX("config", "hot-reloaded heartbeat timeout to %ds", seconds)
	})
	viper.WatchConfig()
}

func buildGenericConfig(cfg *config.Config) (genericConfig *genericapiserver.Config, lastErr error) {
	genericConfig = genericapiserver.NewConfig()
	if lastErr = cfg.GenericServerRunOptions.ApplyTo(genericConfig); lastErr != nil {
		return
	}

	return
}
