package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pulse/internal/config"
)

// collectFlags holds the flags of `pulse collect`.
type collectFlags struct {
	Port     int
	Bind     string
	Interval time.Duration
	Timeout  time.Duration
	Target   string
	Remote   string
}

// register adds the collect flags to cmd. Defaults are shown for reference
// only; unset flags leave the config untouched.
func (f *collectFlags) register(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().IntVarP(&f.Port, "port", "p", d.Port, "TCP port to listen on")
	cmd.Flags().StringVar(&f.Bind, "bind", d.Bind, "address to listen on (empty for all interfaces)")
	cmd.Flags().DurationVar(&f.Interval, "interval", d.Interval, "time between collection cycles")
	cmd.Flags().DurationVar(&f.Timeout, "timeout", d.CollectTimeout, "time limit for one category's probes")
	cmd.Flags().StringVar(&f.Target, "target", d.Target, "process name pattern to watch")
	cmd.Flags().StringVar(&f.Remote, "remote", d.Remote, "run probes on this SSH host instead of locally")
}

// apply copies explicitly set flags into cfg.
func (f *collectFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = f.Port
	}
	if flags.Changed("bind") {
		cfg.Bind = f.Bind
	}
	if flags.Changed("interval") {
		cfg.Interval = f.Interval
	}
	if flags.Changed("timeout") {
		cfg.CollectTimeout = f.Timeout
	}
	if flags.Changed("target") {
		cfg.Target = f.Target
	}
	if flags.Changed("remote") {
		cfg.Remote = f.Remote
	}
}

// watchFlags holds the flags of `pulse watch`.
type watchFlags struct {
	Host    string
	Port    int
	Spawn   bool
	Plain   bool
	LogFile string
}

func (f *watchFlags) register(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&f.Host, "host", d.Host, "collector address to connect to")
	cmd.Flags().IntVarP(&f.Port, "port", "p", d.Port, "collector port")
	cmd.Flags().BoolVar(&f.Spawn, "spawn", d.Display.Spawn, "start a local collector and connect to it")
	cmd.Flags().BoolVar(&f.Plain, "plain", false, "print payloads as text instead of the dashboard")
	cmd.Flags().StringVar(&f.LogFile, "log-file", "", "append logs here while the dashboard is open (default: discard)")
}

func (f *watchFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = f.Host
	}
	if flags.Changed("port") {
		cfg.Port = f.Port
	}
	if flags.Changed("spawn") {
		cfg.Display.Spawn = f.Spawn
	}
}
