// Package posixsignal implements a shutdown.ShutdownManager triggered
// by SIGINT or SIGTERM.
package posixsignal

import (
	"os"
	"os/signal"
	"syscall"
)

// Manager fires a shutdown on receipt of SIGINT or SIGTERM.
type Manager struct{}

// NewPosixSignalManager returns a Manager.
func NewPosixSignalManager() *Manager {
	return &Manager{}
}

// Name identifies the manager in shutdown logs.
func (m *Manager) Name() string {
	return "posix-signal"
}

// Start begins listening for SIGINT/SIGTERM and reports the signal's
// name on the returned channel the first time one arrives.
func (m *Manager) Start() (<-chan string, error) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	out := make(chan string, 1)
	go func() {
		s := <-sig
		out <- s.String()
	}()

	return out, nil
}
