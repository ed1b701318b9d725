package collect

import "github.com/rileyhilliard/pulse/internal/wire"

// Default probes target Linux procps and iproute2. {{target}} is the process
// name being watched. Summary probes match the exact process name, as ps -C
// does, so the probe's own shell never counts.
const (
	usageCommand = `ps -C {{target}} -o %cpu=,%mem= 2>/dev/null | ` +
		`awk -v n="$(nproc 2>/dev/null || echo 1)" '{c+=$1; m+=$2} END {printf "%.2f,%.2f\n", c/n, m}'`
	processCountCommand = `pgrep -c -x {{target}} || true`
	openFilesCommand    = `for p in $(pgrep -x {{target}}); do ls /proc/$p/fd 2>/dev/null; done | wc -l`
	connectionsCommand  = `ss -tnp 2>/dev/null | grep -F {{target}} || true`
	processListCommand  = `ps -eo pcpu,pmem,comm --sort=-pcpu | grep -F {{target}} || true`
)

// DefaultProbes returns the built-in probe set, keyed by category.
func DefaultProbes() map[wire.Category][]Probe {
	return map[wire.Category][]Probe{
		wire.ProcessSummary: {
			{Label: "CPU Usage,MEM Usage", Kind: KindValues, Command: usageCommand},
			{Label: "Processes", Kind: KindValue, Command: processCountCommand},
			{Label: "Open Files", Kind: KindValue, Command: openFilesCommand},
		},
		wire.NetworkSummary: {
			{Kind: KindLines, Command: connectionsCommand, Squeeze: true},
		},
		wire.ProcessList: {
			{Kind: KindLines, Command: processListCommand},
		},
	}
}

// MergeProbes returns the defaults with each category in overrides replacing
// the default probes of that category.
func MergeProbes(overrides map[wire.Category][]Probe) map[wire.Category][]Probe {
	probes := DefaultProbes()
	for category, list := range overrides {
		probes[category] = list
	}
	return probes
}
