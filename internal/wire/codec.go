package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	headerSize    = 1 + 4 // category + record_count
	minRecordSize = 4 + 1 // label_len + has_value
	valueSize     = 8
)

// EncodedSize returns the number of bytes Encode produces for p.
func EncodedSize(p Payload) int {
	n := headerSize
	for _, r := range p.Records {
		n += minRecordSize + len(r.Label)
		if r.HasValue() {
			n += valueSize
		}
	}
	return n
}

// Encode serializes p. It fails only when p cannot be represented on the wire.
func Encode(p Payload) ([]byte, error) {
	return AppendPayload(make([]byte, 0, EncodedSize(p)), p)
}

// AppendPayload appends the encoding of p to dst and returns the extended slice.
// On error dst is returned unchanged.
func AppendPayload(dst []byte, p Payload) ([]byte, error) {
	if !p.Category.Valid() {
		return dst, fmt.Errorf("encode payload: %w: %d", ErrUnknownCategory, uint8(p.Category))
	}
	if uint64(len(p.Records)) > math.MaxUint32 {
		return dst, fmt.Errorf("encode payload: %d records exceed the u32 record count", len(p.Records))
	}

	out := append(dst, byte(p.Category))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(p.Records)))
	for i, r := range p.Records {
		if uint64(len(r.Label)) > math.MaxUint32 {
			return dst, fmt.Errorf("encode payload: record %d label is %d bytes, over the u32 limit", i, len(r.Label))
		}
		out = binary.LittleEndian.AppendUint32(out, uint32(len(r.Label)))
		out = append(out, r.Label...)
		if r.Value == nil {
			out = append(out, 0)
			continue
		}
		out = append(out, 1)
		out = binary.LittleEndian.AppendUint64(out, math.Float64bits(*r.Value))
	}
	return out, nil
}

// Decode parses one complete payload. The whole of b must be consumed:
// bytes left after record_count records are rejected with ErrTrailingBytes.
// A payload without records decodes with a nil Records slice.
func Decode(b []byte) (Payload, error) {
	c := &cursor{buf: b}

	tag, err := c.u8("category")
	if err != nil {
		return Payload{}, err
	}
	category := Category(tag)
	if !category.Valid() {
		return Payload{}, &DecodeError{Offset: 0, Detail: fmt.Sprintf("tag %d", tag), Err: ErrUnknownCategory}
	}

	count, err := c.u32("record count")
	if err != nil {
		return Payload{}, err
	}
	// Reject impossible counts before allocating for them.
	if err := c.need(uint64(count)*minRecordSize, fmt.Sprintf("%d records", count)); err != nil {
		return Payload{}, err
	}

	var records []Record
	if count > 0 {
		records = make([]Record, 0, count)
	}
	for i := uint32(0); i < count; i++ {
		r, err := decodeRecord(c)
		if err != nil {
			if de, ok := err.(*DecodeError); ok {
				de.Detail = fmt.Sprintf("record %d %s", i, de.Detail)
			}
			return Payload{}, err
		}
		records = append(records, r)
	}

	if c.remaining() != 0 {
		return Payload{}, &DecodeError{
			Offset: c.off,
			Detail: fmt.Sprintf("%d bytes left after %d records", c.remaining(), count),
			Err:    ErrTrailingBytes,
		}
	}

	return Payload{Category: category, Records: records}, nil
}

func decodeRecord(c *cursor) (Record, error) {
	labelLen, err := c.u32("label length")
	if err != nil {
		return Record{}, err
	}
	label, err := c.bytes(labelLen, "label")
	if err != nil {
		return Record{}, err
	}

	flagOffset := c.off
	flag, err := c.u8("value flag")
	if err != nil {
		return Record{}, err
	}

	r := Record{Label: string(label)}
	switch flag {
	case 0:
	case 1:
		v, err := c.f64("value")
		if err != nil {
			return Record{}, err
		}
		r.Value = &v
	default:
		return Record{}, &DecodeError{
			Offset: flagOffset,
			Detail: fmt.Sprintf("flag is %d", flag),
			Err:    ErrInvalidFlag,
		}
	}
	return r, nil
}
