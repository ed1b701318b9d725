package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// cursor reads fixed-width fields from a byte slice. Every read checks the
// remaining length first and only advances on success.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

// need fails with ErrTruncated unless n more bytes are available.
func (c *cursor) need(n uint64, what string) error {
	if n > uint64(c.remaining()) {
		return &DecodeError{
			Offset: c.off,
			Detail: fmt.Sprintf("%s needs %d bytes, %d left", what, n, c.remaining()),
			Err:    ErrTruncated,
		}
	}
	return nil
}

func (c *cursor) u8(what string) (uint8, error) {
	if err := c.need(1, what); err != nil {
		return 0, err
	}
	v := c.buf[c.off]
	c.off++
	return v, nil
}

func (c *cursor) u32(what string) (uint32, error) {
	if err := c.need(4, what); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v, nil
}

func (c *cursor) f64(what string) (float64, error) {
	if err := c.need(8, what); err != nil {
		return 0, err
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(c.buf[c.off:]))
	c.off += 8
	return v, nil
}

// bytes returns the next n bytes without copying.
func (c *cursor) bytes(n uint32, what string) ([]byte, error) {
	if err := c.need(uint64(n), what); err != nil {
		return nil, err
	}
	end := c.off + int(n)
	v := c.buf[c.off:end:end]
	c.off = end
	return v, nil
}
