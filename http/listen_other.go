//go:build !linux

package http

import (
	"context"
	"fmt"
	"net"
	"strconv"
)

// Listen binds an IPv4 TCP socket. The backlog is left to the platform
// default; the Go runtime already sets SO_REUSEADDR on listeners.
func Listen(ctx context.Context, host string, port, backlog int) (net.Listener, error) {
	ip, err := parseIPv4(host)
	if err != nil {
		return nil, err
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp4", net.JoinHostPort(ip.String(), strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	return listener, nil
}
