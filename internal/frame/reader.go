package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/rileyhilliard/pulse/internal/wire"
)

const minRead = 4096

// Reader receives framed payloads. Partial frames survive read errors such
// as deadline timeouts, so callers may poll with short deadlines.
// A Reader is not safe for concurrent use.
type Reader struct {
	r       io.Reader
	pending []byte
	max     int
	stats   counters
}

// NewReader returns a Reader on r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, max: MaxFrameSize}
}

// ReceiveOne blocks until one complete frame is available and decodes it.
func (r *Reader) ReceiveOne() (wire.Payload, error) {
	body, err := r.ReadFrame()
	if err != nil {
		return wire.Payload{}, err
	}
	return wire.Decode(body)
}

// ReadFrame returns the body of the next frame. The returned slice is owned
// by the caller.
func (r *Reader) ReadFrame() ([]byte, error) {
	for {
		body, ok, err := r.next()
		if err != nil || ok {
			return body, err
		}
		if err := r.fill(); err != nil {
			return nil, err
		}
	}
}

// Buffered returns the number of bytes held for an incomplete frame.
func (r *Reader) Buffered() int {
	return len(r.pending)
}

// Stats returns the frames and bytes read so far.
func (r *Reader) Stats() Stats {
	return r.stats.snapshot()
}

// next extracts a complete frame from pending, if there is one.
func (r *Reader) next() ([]byte, bool, error) {
	if len(r.pending) < HeaderSize {
		return nil, false, nil
	}
	size := binary.LittleEndian.Uint32(r.pending)
	if uint64(size) > uint64(r.max) {
		return nil, false, fmt.Errorf("frame of %d bytes: %w", size, ErrFrameTooLarge)
	}
	total := HeaderSize + int(size)
	if len(r.pending) < total {
		r.reserve(total)
		return nil, false, nil
	}

	body := make([]byte, size)
	copy(body, r.pending[HeaderSize:total])
	r.pending = r.pending[:copy(r.pending, r.pending[total:])]
	r.stats.add(total)
	return body, true, nil
}

// reserve grows pending so a frame of total bytes fits without further copies.
func (r *Reader) reserve(total int) {
	if cap(r.pending) >= total {
		return
	}
	grown := make([]byte, len(r.pending), total)
	copy(grown, r.pending)
	r.pending = grown
}

// fill performs one read into pending. Data read alongside an error is kept.
func (r *Reader) fill() error {
	switch {
	case cap(r.pending) == 0:
		r.reserve(minRead)
	case len(r.pending) == cap(r.pending):
		r.reserve(2 * cap(r.pending))
	}

	n, err := r.r.Read(r.pending[len(r.pending):cap(r.pending)])
	r.pending = r.pending[:len(r.pending)+n]
	if n > 0 {
		return nil
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		if len(r.pending) == 0 {
			return ErrConnectionClosed
		}
		return &wire.DecodeError{
			Offset: len(r.pending),
			Detail: "stream ended inside a frame",
			Err:    wire.ErrTruncated,
		}
	}
	return err
}
