package http

import (
	"fmt"
	"net"
)

func parseIPv4(host string) (net.IP, error) {
	if host == "" {
		return net.IPv4zero.To4(), nil
	}

	ip := net.ParseIP(host).To4()
	if ip == nil {
		return nil, fmt.Errorf("listen: %q is not an IPv4 address", host)
	}
	return ip, nil
}
