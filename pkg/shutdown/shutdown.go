// Package shutdown provides a small graceful-shutdown coordinator: one
// or more ShutdownManagers signal that the process should stop, and a
// set of registered callbacks run once, in registration order, before
// the process exits. This is the shape the router's own server.go
// wires a posix-signal manager against.
package shutdown

import "github.com/ditef/router/pkg/logger"

// ShutdownManager watches for a shutdown trigger (e.g. SIGINT/SIGTERM)
// and reports it on the channel returned by Start.
type ShutdownManager interface {
	// Name identifies the manager in logs.
	Name() string
	// Start begins watching for a shutdown trigger and returns a
	// channel that receives the triggering reason exactly once.
	Start() (<-chan string, error)
}

// Func adapts a plain function to the Callback interface.
type Func func(reason string) error

// Callback runs during shutdown, after a ShutdownManager has fired.
type Callback interface {
	OnShutdown(reason string) error
}

func (f Func) OnShutdown(reason string) error { return f(reason) }

// GracefulShutdown coordinates ShutdownManagers and Callbacks.
type GracefulShutdown struct {
	managers  []ShutdownManager
	callbacks []Callback
}

// New returns an empty GracefulShutdown.
func New() *GracefulShutdown {
	return &GracefulShutdown{}
}

// AddShutdownManager registers a trigger source.
func (gs *GracefulShutdown) AddShutdownManager(m ShutdownManager) {
	gs.managers = append(gs.managers, m)
}

// AddShutdownCallback registers a callback to run, in order, once any
// manager fires.
func (gs *GracefulShutdown) AddShutdownCallback(cb Callback) {
	gs.callbacks = append(gs.callbacks, cb)
}

// Start begins every manager and, in the background, runs every
// registered callback in order the first time any manager fires. It
// returns immediately; the caller is expected to block elsewhere (e.g.
// on its own server's blocking Run) until the callbacks unblock it.
func (gs *GracefulShutdown) Start() error {
	fired := make(chan string, len(gs.managers))

	for _, m := range gs.managers {
		ch, err := m.Start()
		if err != nil {
			return err
		}
		manager := m
		go func() {
			reason := <-ch
			logger.InfoX("shutdown", "%s triggered shutdown: %s", manager.Name(), reason)
			fired <- reason
		}()
	}

	go func() {
		reason := <-fired
		for _, cb := range gs.callbacks {
			if err := cb.OnShutdown(reason); err != nil {
				logger.ErrorX("shutdown", "callback failed: %v", err)
			}
		}
	}()

	return nil
}
