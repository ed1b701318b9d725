// Package wire implements the binary encoding of metric payloads exchanged
// between the collector and the display.
//
// # Layout
//
// All integers are fixed-width and little-endian on every platform. Values
// are IEEE-754 binary64 stored as their bit pattern.
//
//	Payload := category:u8 record_count:u32 Record*record_count
//	Record  := label_len:u32 label:[label_len]byte has_value:u8 value:f64?
//
// has_value is 0 or 1; value is present only when has_value is 1.
//
// # Decoding
//
// Decode treats every length field as untrusted. Reads go through a cursor
// that checks the remaining length before advancing, so malformed input
// yields a *DecodeError (matchable with errors.Is against ErrTruncated,
// ErrUnknownCategory, ErrInvalidFlag or ErrTrailingBytes) and never a panic.
package wire
