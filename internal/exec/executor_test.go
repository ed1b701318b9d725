package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pulse/internal/errors"
)

func TestIsCommandNotFound(t *testing.T) {
	tests := []struct {
		name      string
		stderr    string
		exitCode  int
		wantCmd   string
		wantFound bool
	}{
		{
			name:      "bash command not found",
			stderr:    "bash: ss: command not found",
			exitCode:  127,
			wantCmd:   "ss",
			wantFound: true,
		},
		{
			name:      "zsh command not found",
			stderr:    "zsh: command not found: pgrep",
			exitCode:  127,
			wantCmd:   "pgrep",
			wantFound: true,
		},
		{
			name:      "sh not found",
			stderr:    "sh: 1: nproc: not found",
			exitCode:  127,
			wantCmd:   "nproc",
			wantFound: true,
		},
		{
			name:      "exit code 127 no pattern match",
			stderr:    "some other error message",
			exitCode:  127,
			wantCmd:   "",
			wantFound: true,
		},
		{
			name:      "normal error not command not found",
			stderr:    "Error: file not found",
			exitCode:  1,
			wantFound: false,
		},
		{
			name:      "success exit code",
			exitCode:  0,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, found := IsCommandNotFound(tt.stderr, tt.exitCode)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantCmd, cmd)
		})
	}
}

func TestCheckExit(t *testing.T) {
	assert.NoError(t, CheckExit("true", nil, 0))

	err := CheckExit("ss -tnp", []byte("sh: 1: ss: not found\n"), 127)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrExec))
	assert.Contains(t, err.Error(), "'ss' not found in PATH")
	assert.Contains(t, err.Error(), "probes:")

	err = CheckExit("lsof -p 1", []byte("weird"), 127)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'lsof' not found")

	err = CheckExit("ps -C x", []byte("ps: bad option\nusage: ...\n"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code 1")
	assert.Contains(t, err.Error(), "ps: bad option")
	assert.NotContains(t, err.Error(), "usage")
}
