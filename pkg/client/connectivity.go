package client

import (
	"net"
	"time"
)

// NewDialProbe reports a data connection as available when a TCP connection
// to address can be opened within timeout. An empty address is always
// considered reachable.
func NewDialProbe(address string, timeout time.Duration) Connectivity {
	if address == "" {
		return AlwaysConnected
	}

	return ConnectivityFunc(func() bool {
		conn, err := net.DialTimeout("tcp", address, timeout)
		if err != nil {
			return false
		}

		conn.Close()
		return true
	})
}
