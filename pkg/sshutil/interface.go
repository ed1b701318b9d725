package sshutil

import "context"

// Executor runs commands on a remote host.
// The real Client satisfies it; tests substitute fakes.
type Executor interface {
	// ExecContext runs cmd and returns stdout, stderr and the exit code.
	// Exit code is -1 if the command couldn't be executed at all.
	// A non-zero exit code with nil error means the command ran but failed.
	ExecContext(ctx context.Context, cmd string) (stdout, stderr []byte, exitCode int, err error)

	// Close closes the SSH connection.
	Close() error

	// GetHost returns the original host/alias used to connect.
	GetHost() string
}

var _ Executor = (*Client)(nil)
