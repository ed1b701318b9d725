package collect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/exec"
	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/pkg/sshutil"
)

// Runner executes a probe command and returns its stdout.
// A non-zero exit status is an error.
type Runner interface {
	Run(ctx context.Context, command string) ([]byte, error)
	Close() error
}

// LocalRunner runs probes on this machine.
type LocalRunner struct{}

// Run executes command through the local shell.
func (LocalRunner) Run(ctx context.Context, command string) ([]byte, error) {
	stdout, stderr, exitCode, err := exec.ExecuteLocalCapture(ctx, command)
	if err != nil {
		return nil, err
	}
	if err := exec.CheckExit(command, stderr, exitCode); err != nil {
		return nil, err
	}
	return stdout, nil
}

// Close is a no-op.
func (LocalRunner) Close() error { return nil }

// DialFunc opens an SSH connection to host.
type DialFunc func(ctx context.Context, host string, timeout time.Duration) (sshutil.Executor, error)

// SSHRunner runs probes on a remote host. The connection is dialed on first
// use and dropped after any transport failure, so the next call re-dials.
type SSHRunner struct {
	host        string
	dialTimeout time.Duration
	dial        DialFunc
	log         logger.Logger

	mu     sync.Mutex
	client sshutil.Executor
}

// NewSSHRunner returns a runner for host using sshutil.Dial.
func NewSSHRunner(host string, dialTimeout time.Duration, log logger.Logger) *SSHRunner {
	return NewSSHRunnerWithDialer(host, dialTimeout, func(ctx context.Context, host string, timeout time.Duration) (sshutil.Executor, error) {
		client, err := sshutil.Dial(ctx, host, timeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	}, log)
}

// NewSSHRunnerWithDialer is NewSSHRunner with a custom dial function.
func NewSSHRunnerWithDialer(host string, dialTimeout time.Duration, dial DialFunc, log logger.Logger) *SSHRunner {
	if log == nil {
		log = logger.Noop()
	}
	return &SSHRunner{host: host, dialTimeout: dialTimeout, dial: dial, log: log}
}

// Run executes command on the remote host.
func (r *SSHRunner) Run(ctx context.Context, command string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		client, err := r.dial(ctx, r.host, r.dialTimeout)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrCollect,
				fmt.Sprintf("Couldn't connect to '%s' for collection", r.host),
				"The next cycle will retry the connection.")
		}
		r.log.Debug("connected to %s for collection", r.host)
		r.client = client
	}

	stdout, stderr, exitCode, err := r.client.ExecContext(ctx, command)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.Debug("dropping SSH connection to %s: %v", r.host, err)
		_ = r.client.Close()
		r.client = nil
		return nil, err
	}
	if err := exec.CheckExit(command, stderr, exitCode); err != nil {
		return nil, err
	}
	return stdout, nil
}

// Close closes the SSH connection if one is open.
func (r *SSHRunner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}
