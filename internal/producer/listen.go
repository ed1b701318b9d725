package producer

import (
	"context"
	"net"
	"syscall"
)

// Listen opens a TCP listener with SO_REUSEADDR so a restarted collector can
// rebind while old connections linger in TIME_WAIT. It falls back to a plain
// listen when the socket option cannot be set.
func Listen(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			controlErr := c.Control(func(fd uintptr) {
				sockErr = setReuseAddr(fd)
			})
			if controlErr != nil {
				return controlErr
			}
			return sockErr
		},
	}
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		var plain net.ListenConfig
		return plain.Listen(ctx, "tcp", addr)
	}
	return listener, nil
}
