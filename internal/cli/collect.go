package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pulse/internal/collect"
	"github.com/rileyhilliard/pulse/internal/config"
	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/producer"
	"github.com/rileyhilliard/pulse/pkg/sshutil"
)

// sshDialTimeout bounds connecting to a --remote host.
const sshDialTimeout = 10 * time.Second

var collectOpts collectFlags

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect metrics and serve them to a display",
	Long: `Run the collector. It listens for one display at a time and, while one is
connected, runs the probes of every category each interval and sends the
results.

Probes run through /bin/sh on this machine, or over SSH with --remote.
When a display disconnects the collector waits for the next one.

Examples:
  pulse collect
  pulse collect --port 9000 --target firefox
  pulse collect --remote devbox --interval 2s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd, collectOpts.apply)
		if err != nil {
			return err
		}
		return runCollect(cmd.Context(), cfg, logger.NewEnvLogger("[collect]"))
	},
}

func init() {
	collectOpts.register(collectCmd)
	rootCmd.AddCommand(collectCmd)
}

// runCollect serves until ctx is cancelled.
func runCollect(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	probes, err := cfg.ProbeSet()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Probe configuration is invalid",
			"Check the probes section of your config.")
	}

	source := collect.NewProbeSource(newRunner(cfg, log), probes, cfg.Target, log)
	defer source.Close()
	defer sshutil.CloseAgent()

	p := producer.New(producer.Config{
		Addr:           cfg.ListenAddr(),
		Interval:       cfg.Interval,
		CollectTimeout: cfg.CollectTimeout,
		OnStateChange: func(s producer.State) {
			log.Debug("state: %s", s)
		},
	}, source, log)
	return p.Run(ctx)
}

func newRunner(cfg *config.Config, log logger.Logger) collect.Runner {
	if cfg.Remote == "" {
		return collect.LocalRunner{}
	}
	log.Info("running probes on %s over SSH", cfg.Remote)
	return collect.NewSSHRunner(cfg.Remote, sshDialTimeout, log)
}
