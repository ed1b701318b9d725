package exec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rileyhilliard/pulse/internal/errors"
)

// commandNotFoundPatterns detect "command not found" messages from various
// shells. They are only consulted for exit code 127.
var commandNotFoundPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bash: (\S+): command not found`),
	regexp.MustCompile(`(?i)zsh: command not found: (\S+)`),
	regexp.MustCompile(`(?i)sh: \d+: (\S+): not found`),
	regexp.MustCompile(`(?i)-bash: (\S+): No such file or directory`),
	regexp.MustCompile(`(?i)(\S+): not found`),
	regexp.MustCompile(`(?i)(\S+): command not found`),
}

// IsCommandNotFound checks if the error output indicates a missing command.
// Returns the command name (if extractable) and whether it's a command-not-found error.
func IsCommandNotFound(stderr string, exitCode int) (string, bool) {
	if exitCode != 127 {
		return "", false
	}
	for _, pattern := range commandNotFoundPatterns {
		if matches := pattern.FindStringSubmatch(stderr); len(matches) > 1 {
			return matches[1], true
		}
	}
	return "", true
}

// CheckExit turns a finished command into an error. It returns nil for exit
// code 0, an ErrExec error naming the missing tool for exit code 127, and a
// generic ErrExec error carrying the first stderr line otherwise.
func CheckExit(cmd string, stderr []byte, exitCode int) error {
	if exitCode == 0 {
		return nil
	}

	if name, notFound := IsCommandNotFound(string(stderr), exitCode); notFound {
		if name == "" {
			name = "command"
			if parts := strings.Fields(cmd); len(parts) > 0 {
				name = parts[0]
			}
		}
		return errors.New(errors.ErrExec,
			fmt.Sprintf("'%s' not found in PATH", name),
			fmt.Sprintf("Install '%s' on the collecting host, or override the probe under 'probes:' in .pulse.yaml", name))
	}

	detail := strings.TrimSpace(string(stderr))
	if i := strings.IndexByte(detail, '\n'); i != -1 {
		detail = detail[:i]
	}
	return errors.New(errors.ErrExec,
		fmt.Sprintf("Probe exited with code %d: %s", exitCode, cmd),
		detail)
}
