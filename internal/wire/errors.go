package wire

import (
	"errors"
	"fmt"
)

// Sentinel decode failures. Match them with errors.Is.
var (
	ErrTruncated       = errors.New("truncated payload")
	ErrUnknownCategory = errors.New("unknown category")
	ErrInvalidFlag     = errors.New("invalid has_value flag")
	ErrTrailingBytes   = errors.New("trailing bytes after last record")
)

// DecodeError describes where and why a payload was rejected.
type DecodeError struct {
	Offset int    // byte offset at which decoding stopped
	Detail string // what was being read
	Err    error  // one of the sentinel errors above
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("%v at offset %d: %s", e.Err, e.Offset, e.Detail)
}

// Unwrap returns the sentinel error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err is (or wraps) a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
