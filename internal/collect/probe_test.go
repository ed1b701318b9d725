package collect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pulse/internal/wire"
)

func TestProbe_Parse(t *testing.T) {
	tests := []struct {
		name    string
		probe   Probe
		output  string
		want    []wire.Record
		wantErr string
	}{
		{
			name:   "value",
			probe:  Probe{Label: "Processes", Kind: KindValue},
			output: "12\n",
			want:   []wire.Record{wire.Measurement("Processes", 12)},
		},
		{
			name:   "value skips blank lines",
			probe:  Probe{Label: "Open Files", Kind: KindValue},
			output: "\n  340  \n",
			want:   []wire.Record{wire.Measurement("Open Files", 340)},
		},
		{
			name:    "value not a number",
			probe:   Probe{Label: "Processes", Kind: KindValue},
			output:  "n/a\n",
			wantErr: "not a number",
		},
		{
			name:    "value without output",
			probe:   Probe{Label: "Processes", Kind: KindValue},
			output:  "",
			wantErr: "no output",
		},
		{
			name:   "values",
			probe:  Probe{Label: "CPU Usage, MEM Usage", Kind: KindValues},
			output: "12.50,3.20\n",
			want: []wire.Record{
				wire.Measurement("CPU Usage", 12.5),
				wire.Measurement("MEM Usage", 3.2),
			},
		},
		{
			name:    "values count mismatch",
			probe:   Probe{Label: "CPU Usage,MEM Usage", Kind: KindValues},
			output:  "12.5\n",
			wantErr: "got 1 values for 2 labels",
		},
		{
			name:    "values bad field",
			probe:   Probe{Label: "CPU Usage,MEM Usage", Kind: KindValues},
			output:  "12.5,x\n",
			wantErr: "MEM Usage",
		},
		{
			name:   "lines",
			probe:  Probe{Kind: KindLines},
			output: " 12.0  3.1 chrome\n\n  0.5  1.0 chrome\n",
			want:   []wire.Record{wire.Text(" 12.0  3.1 chrome"), wire.Text("  0.5  1.0 chrome")},
		},
		{
			name:   "lines squeezed",
			probe:  Probe{Kind: KindLines, Squeeze: true},
			output: "ESTAB  0   0   10.0.0.2:5000   1.1.1.1:443\n",
			want:   []wire.Record{wire.Text("ESTAB 0 0 10.0.0.2:5000 1.1.1.1:443")},
		},
		{
			name:   "lines empty output",
			probe:  Probe{Kind: KindLines},
			output: "\n",
			want:   nil,
		},
		{
			name:    "unknown kind",
			probe:   Probe{Label: "x", Kind: "table"},
			wantErr: "unknown kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.probe.Parse([]byte(tt.output))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_IsValid(t *testing.T) {
	for _, k := range ValidKinds() {
		assert.True(t, k.IsValid(), k)
	}
	assert.False(t, Kind("").IsValid())
	assert.False(t, Kind("table").IsValid())
}

func TestProbe_Labels(t *testing.T) {
	assert.Equal(t, []string{"CPU Usage", "MEM Usage"}, Probe{Label: "CPU Usage,MEM Usage", Kind: KindValues}.Labels())
	assert.Equal(t, []string{"CPU Usage,MEM Usage"}, Probe{Label: "CPU Usage,MEM Usage", Kind: KindValue}.Labels())
}

func TestDefaultProbes(t *testing.T) {
	probes := DefaultProbes()

	for _, c := range wire.Categories() {
		require.NotEmpty(t, probes[c], c.String())
		for _, p := range probes[c] {
			assert.True(t, p.Kind.IsValid())
			assert.Contains(t, p.Command, "{{target}}")
		}
	}

	summary := probes[wire.ProcessSummary]
	assert.Equal(t, []string{"CPU Usage", "MEM Usage"}, summary[0].Labels())
	assert.Equal(t, "Processes", summary[1].Label)
	assert.Equal(t, "Open Files", summary[2].Label)
	assert.True(t, probes[wire.NetworkSummary][0].Squeeze)
}

func TestMergeProbes(t *testing.T) {
	custom := []Probe{{Label: "Load", Kind: KindValue, Command: "cut -d' ' -f1 /proc/loadavg"}}
	merged := MergeProbes(map[wire.Category][]Probe{wire.ProcessSummary: custom})

	assert.Equal(t, custom, merged[wire.ProcessSummary])
	assert.Equal(t, DefaultProbes()[wire.ProcessList], merged[wire.ProcessList])
}
