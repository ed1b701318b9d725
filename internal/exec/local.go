// Package exec runs probe commands on the local machine and classifies
// their failures.
package exec

import (
	"bytes"
	"context"
	stderrors "errors"
	"os/exec"
	"time"

	"github.com/rileyhilliard/pulse/internal/errors"
)

// Shell interprets probe commands. Probes are written for POSIX sh.
var Shell = "/bin/sh"

// waitDelay bounds how long Wait blocks on pipes held open by grandchildren
// after the shell itself was killed.
const waitDelay = 100 * time.Millisecond

// ExecuteLocalCapture runs cmd through Shell and captures its output.
// Returns stdout, stderr, exit code, and any execution error.
// A non-zero exit code with nil error means the command ran but failed.
// When ctx ends first the process is killed and ctx.Err() is returned.
func ExecuteLocalCapture(ctx context.Context, cmd string) (stdout, stderr []byte, exitCode int, err error) {
	command := exec.CommandContext(ctx, Shell, "-c", cmd)
	command.WaitDelay = waitDelay

	var stdoutBuf, stderrBuf bytes.Buffer
	command.Stdout = &stdoutBuf
	command.Stderr = &stderrBuf

	runErr := command.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, nil, -1, ctxErr
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if stderrors.As(runErr, &exitErr) {
			return stdoutBuf.Bytes(), stderrBuf.Bytes(), exitErr.ExitCode(), nil
		}
		return nil, nil, -1, errors.WrapWithCode(runErr, errors.ErrExec,
			"Couldn't run the command locally",
			"Make sure "+Shell+" exists and is executable.")
	}

	return stdoutBuf.Bytes(), stderrBuf.Bytes(), 0, nil
}
