package frame

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/rileyhilliard/pulse/internal/wire"
)

// Writer sends framed payloads. It is safe for concurrent use; frames are
// never interleaved.
type Writer struct {
	mu    sync.Mutex
	w     io.Writer
	buf   []byte
	stats counters
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Send encodes p and writes it as one frame.
func (w *Writer) Send(p wire.Payload) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	buf := append(w.buf[:0], 0, 0, 0, 0)
	buf, err := wire.AppendPayload(buf, p)
	if err != nil {
		return err
	}
	return w.flush(buf)
}

// flush fills in the length prefix of buf and writes all of it.
func (w *Writer) flush(buf []byte) error {
	w.buf = buf
	size := len(buf) - HeaderSize
	if size > MaxFrameSize {
		return fmt.Errorf("send frame of %d bytes: %w", size, ErrFrameTooLarge)
	}
	binary.LittleEndian.PutUint32(buf, uint32(size))

	if err := writeFull(w.w, buf); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	w.stats.add(len(buf))
	return nil
}

// Stats returns the frames and bytes written so far.
func (w *Writer) Stats() Stats {
	return w.stats.snapshot()
}

func writeFull(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		b = b[n:]
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}
	return nil
}
