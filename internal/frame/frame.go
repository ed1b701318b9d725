// Package frame carries wire payloads over a byte stream.
//
// Each frame is a 4-byte little-endian length prefix followed by exactly that
// many payload bytes. The Reader tolerates partial reads and read timeouts:
// bytes already received stay buffered until the frame completes.
package frame

import (
	"errors"
	"net"
	"os"
	"sync/atomic"
)

const (
	// HeaderSize is the length of the frame prefix.
	HeaderSize = 4
	// MaxFrameSize caps the payload length a Reader accepts.
	MaxFrameSize = 16 << 20
)

var (
	// ErrConnectionClosed is returned when the peer closes the stream between frames.
	ErrConnectionClosed = errors.New("connection closed by peer")
	// ErrFrameTooLarge is returned for a length prefix above MaxFrameSize.
	ErrFrameTooLarge = errors.New("frame exceeds maximum size")
)

// Stats is a snapshot of the traffic handled by a Reader or Writer.
type Stats struct {
	Frames uint64
	Bytes  uint64 // including length prefixes
}

type counters struct {
	frames atomic.Uint64
	bytes  atomic.Uint64
}

func (c *counters) add(n int) {
	c.frames.Add(1)
	c.bytes.Add(uint64(n))
}

func (c *counters) snapshot() Stats {
	return Stats{Frames: c.frames.Load(), Bytes: c.bytes.Load()}
}

// IsTimeout reports whether err is a read or write deadline expiry.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
