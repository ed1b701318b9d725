package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/logger"
)

// collectorProcess is a `pulse collect` child started by `pulse watch --spawn`.
type collectorProcess struct {
	cmd    *exec.Cmd
	exited chan struct{}
	err    error // set before exited is closed

	stopOnce sync.Once
}

// spawnCollector starts this binary as a collector on 127.0.0.1:port.
// The child's stdout is discarded and its stderr goes to logOut.
func spawnCollector(port int, configPath string, logOut io.Writer, log logger.Logger) (*collectorProcess, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			"Can't find the pulse executable to spawn a collector",
			"Start one yourself with 'pulse collect'.")
	}
	return startCollector(exe, collectorArgs(port, configPath), logOut, log)
}

func collectorArgs(port int, configPath string) []string {
	args := []string{"collect", "--port", strconv.Itoa(port), "--bind", "127.0.0.1"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	return args
}

func startCollector(exe string, args []string, logOut io.Writer, log logger.Logger) (*collectorProcess, error) {
	cmd := exec.Command(exe, args...)
	cmd.Stdout = nil
	cmd.Stderr = logOut
	cmd.Env = os.Environ()
	// Grandchildren holding the stderr pipe must not stall Wait after a kill.
	cmd.WaitDelay = time.Second

	if err := cmd.Start(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrExec,
			"Can't start the collector",
			fmt.Sprintf("Try running it yourself: %s collect", exe))
	}
	log.Debug("spawned collector pid %d: %v", cmd.Process.Pid, args)

	p := &collectorProcess{cmd: cmd, exited: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		close(p.exited)
	}()
	return p, nil
}

// Exited is closed when the child process ends.
func (p *collectorProcess) Exited() <-chan struct{} {
	return p.exited
}

// Err is the child's exit status. Only valid after Exited is closed.
func (p *collectorProcess) Err() error {
	return p.err
}

// WatchContext returns a context cancelled when ctx ends or the child exits.
func (p *collectorProcess) WatchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-p.exited:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// Stop kills the child and waits for it. Safe to call more than once.
func (p *collectorProcess) Stop() {
	p.stopOnce.Do(func() {
		select {
		case <-p.exited:
			return
		default:
		}
		_ = p.cmd.Process.Kill()
		select {
		case <-p.exited:
		case <-time.After(5 * time.Second):
		}
	})
}
