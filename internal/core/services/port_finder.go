package services

import (
	"fmt"
	"net"
)

// FindAvailablePort probes loopback ports in the given inclusive range
// and returns the first one that can be bound. Used to place the OAuth
// callback server.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err != nil {
			continue
		}
		listener.Close()
		return port, nil
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
