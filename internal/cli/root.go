package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pulse/internal/config"
	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/logger"
)

// Global flags
var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "Live resource usage of a process family, in your terminal",
	Long: `pulse samples CPU, memory, open files, connections and the process list
of a family of processes (chrome by default) and streams them to a terminal
dashboard.

Run the collector on the machine you want to watch and the display wherever
you like:

  pulse collect              # serve metrics on :8080
  pulse watch                # draw them
  pulse watch --spawn        # both at once, locally`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetDebug(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: nearest .pulse.yaml, then ~/.config/pulse/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging (same as PULSE_DEBUG=1)")
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context; any error exits with status 1.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err in the structured "✗ what / why / fix" layout.
func reportError(w io.Writer, err error) {
	if isUnknownCommandError(err) {
		if name := extractUnknownCommand(err); name != "" {
			err = errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown command %q", name),
				"Run 'pulse --help' to see the available commands.")
		} else {
			err = errors.WrapWithCode(err, errors.ErrConfig, "Invalid arguments",
				"Run 'pulse <command> --help' for usage.")
		}
	}

	var pErr *errors.Error
	if stderrors.As(err, &pErr) {
		fmt.Fprint(w, err.Error())
		return
	}
	fmt.Fprintf(w, "✗ %v\n", err)
}

// isUnknownCommandError reports whether err is cobra's unknown command or
// flag error.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of
// `unknown command "foo" for "pulse"`.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// loadConfig resolves the config file, applies command flags and validates
// the result. The path is empty when only defaults and environment apply.
func loadConfig(cmd *cobra.Command, apply func(*cobra.Command, *config.Config)) (*config.Config, string, error) {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, "", err
	}
	if apply != nil {
		apply(cmd, cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
