package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/ditef/router/pkg/logger"
	"github.com/ditef/router/pkg/netutil"
	"github.com/ditef/router/pkg/version"
)

// GenericAPIServer contains state for a generic api server.
type GenericAPIServer struct {
	// ServingInfo holds the bind address/port the server listens on.
	ServingInfo *ServingInfo

	// ShutdownTimeout is the timeout used for server shutdown. This specifies the timeout before server
	// gracefully shutdown returns.
	ShutdownTimeout time.Duration

	*gin.Engine
	healthz         bool
	enableProfiling bool

	Server *http.Server
}

func initGenericAPIServer(s *GenericAPIServer) {
	s.Setup()
	s.InstallMiddlewares()
	s.InstallAPIs()
}

// Setup do some setup work for gin engine.
func (s *GenericAPIServer) Setup() {
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {
		logger.Info("%-6s %-s --> %s (%d handlers)", httpMethod, absolutePath, handlerName, nuHandlers)
	}
}

// InstallMiddlewares installs middlewares to gin engine.
func (s *GenericAPIServer) InstallMiddlewares() {
	s.Use(gin.Recovery())
}

// InstallAPIs installs the ambient routes every router instance exposes,
// regardless of what the caller registers on top.
func (s *GenericAPIServer) InstallAPIs() {
	if s.healthz {
		s.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	if s.enableProfiling {
		pprof.Register(s.Engine)
	}

	s.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	})
}

// Run starts serving on ServingInfo.Address with TCP keepalive tuned the
// same way the original router's asyncio server tuned its listening
// socket, and blocks until the listener is closed.
func (s *GenericAPIServer) Run() error {
	s.Server = &http.Server{
		Addr:    s.ServingInfo.Address(),
		Handler: s.Engine,
	}

	listener, err := netutil.ListenKeepAlive("tcp", s.ServingInfo.Address())
	if err != nil {
		return err
	}

	logger.Info("serving on %s", s.ServingInfo.Address())
	if err := s.Server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close gracefully shuts down the api server.
func (s *GenericAPIServer) Close() {
	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Server.Shutdown(ctx); err != nil {
		logger.Warn("shutdown api server failed: %s", err.Error())
	}
}
