// Package netutil wraps net.Listen with the TCP keepalive tuning the
// router applies to its listening socket, ported from the Python
// implementation's explicit SO_KEEPALIVE/TCP_KEEPCNT/TCP_KEEPIDLE/
// TCP_KEEPINTVL setsockopt calls (net/http does not expose these by
// default; net.TCPConn.SetKeepAliveConfig does, as of Go 1.23).
package netutil

import (
	"net"
	"time"
)

var keepAliveConfig = net.KeepAliveConfig{
	Enable:   true,
	Idle:     60 * time.Second,
	Interval: 60 * time.Second,
	Count:    3,
}

// ListenKeepAlive listens on network/address and returns a net.Listener
// whose accepted TCP connections carry the router's keepalive tuning,
// so a half-open worker or producer connection is detected rather than
// hanging forever.
func ListenKeepAlive(network, address string) (net.Listener, error) {
	inner, err := net.Listen(network, address)
	if err != nil {
		return nil, err
	}
	return &keepAliveListener{Listener: inner}, nil
}

type keepAliveListener struct {
	net.Listener
}

func (l *keepAliveListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetKeepAliveConfig(keepAliveConfig)
	}

	return conn, nil
}
