package collect

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/wire"
)

// requireProcTools skips unless the default probes can run on this machine.
func requireProcTools(t *testing.T) {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("default probes read /proc")
	}
	for _, tool := range []string{"ps", "pgrep", "awk", "nproc"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not installed", tool)
		}
	}
}

// summary collects ProcessSummary for target on this machine, keyed by label.
func summary(t *testing.T, target string) map[string]float64 {
	t.Helper()
	src := NewProbeSource(LocalRunner{}, DefaultProbes(), target, logger.Noop())
	records, err := src.Collect(context.Background(), wire.ProcessSummary)
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, r := range records {
		require.True(t, r.HasValue(), r.Label)
		values[r.Label] = *r.Value
	}
	return values
}

func TestDefaultProbes_TargetNotRunning(t *testing.T) {
	requireProcTools(t)

	got := summary(t, "zzqnoprocesszz")
	assert.Equal(t, map[string]float64{
		"CPU Usage":  0,
		"MEM Usage":  0,
		"Processes":  0,
		"Open Files": 0,
	}, got)
}

func TestDefaultProbes_CountsRunningTarget(t *testing.T) {
	requireProcTools(t)

	// The kernel keeps the first 15 bytes of the executable name.
	name := filepath.Base(os.Args[0])
	if len(name) > 15 {
		name = name[:15]
	}

	got := summary(t, name)
	assert.GreaterOrEqual(t, got["Processes"], 1.0)
	assert.GreaterOrEqual(t, got["Open Files"], 1.0)
}
