// Package errors defines the structured error pulse reports to users. Every
// fatal condition carries a code, a one-line message, the underlying cause and
// a suggested fix.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes. Setup failures (CONFIG, NET at bind or dial time) end the
// command with exit status 1. After setup, NET and PROTOCOL end a display
// session, while COLLECT and SSH failures only cost a category its data for
// one cycle.
const (
	// ErrConfig covers config files, flags and interactive input.
	ErrConfig = "CONFIG"
	// ErrNet covers listening, dialing and a connection lost mid-stream.
	ErrNet = "NET"
	// ErrProtocol marks a frame that could not be decoded. The connection
	// that sent it is dropped.
	ErrProtocol = "PROTOCOL"
	// ErrCollect marks a collection runner that could not reach its probe
	// host. The cycle reports no data and the next one retries.
	ErrCollect = "COLLECT"
	// ErrSSH covers SSH dialing, authentication and host key checks.
	ErrSSH = "SSH"
	// ErrExec covers probe commands and the spawned collector process.
	ErrExec = "EXEC"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps err with a message under ErrNet, the code of most runtime
// failures between collector and display.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrNet,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}
