package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pulse/internal/config"
	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/ui"
	"github.com/rileyhilliard/pulse/pkg/sshutil"
)

// manualRemote is the select value that asks for a host by hand.
const manualRemote = "\x00manual"

// InitOptions holds options for the init command.
type InitOptions struct {
	Dir            string // directory to write .pulse.yaml into
	Overwrite      bool   // overwrite an existing config without asking
	NonInteractive bool   // skip prompts, use flags and defaults
	Port           int
	Target         string
	Remote         string

	// SSHConfigPath is read for host aliases. Empty means ~/.ssh/config.
	SSHConfigPath string
	// TestRemote checks the SSH host before saving. Defaults to dialing it.
	TestRemote func(ctx context.Context, host string) error
}

var initOpts InitOptions

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .pulse.yaml configuration",
	Long: `Write a .pulse.yaml in the current directory.

Asks which process family to watch, which port to use and whether probes run
locally or on an SSH host from your ~/.ssh/config.

Examples:
  pulse init
  pulse init --non-interactive --target firefox --port 9000
  pulse init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		opts.Dir = "."
		return Init(cmd.Context(), opts, cmd.OutOrStdout())
	},
}

func init() {
	d := config.DefaultConfig()
	initCmd.Flags().BoolVar(&initOpts.Overwrite, "force", false, "overwrite an existing .pulse.yaml")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "don't prompt; use flags and defaults")
	initCmd.Flags().IntVar(&initOpts.Port, "port", d.Port, "collector port")
	initCmd.Flags().StringVar(&initOpts.Target, "target", d.Target, "process name pattern to watch")
	initCmd.Flags().StringVar(&initOpts.Remote, "remote", "", "SSH host to run probes on")
	rootCmd.AddCommand(initCmd)
}

// Init writes a new config file into opts.Dir.
func Init(ctx context.Context, opts InitOptions, out io.Writer) error {
	if opts.TestRemote == nil {
		opts.TestRemote = dialRemote
	}
	path := filepath.Join(opts.Dir, config.ConfigFileName)

	if _, err := os.Stat(path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", path),
				"Use --force to overwrite")
		}
		var overwrite bool
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("'%s' already exists. Overwrite?", config.ConfigFileName)).
				Value(&overwrite),
		))
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	cfg.Port = opts.Port
	if opts.Target != "" {
		cfg.Target = opts.Target
	}
	cfg.Remote = opts.Remote

	if !opts.NonInteractive {
		if err := promptConfig(cfg, opts.SSHConfigPath); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if cfg.Remote != "" {
		if err := checkRemote(ctx, cfg.Remote, opts, out); err != nil {
			return err
		}
	} else {
		ui.Skipped(out, "No SSH host; probes run on this machine")
	}

	if err := config.Write(path, cfg); err != nil {
		return err
	}

	ui.Success(out, "Created %s", path)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	ui.Hint(out, "pulse collect        - start the collector")
	ui.Hint(out, "pulse watch          - open the dashboard")
	ui.Hint(out, "pulse watch --spawn  - both, on this machine")
	return nil
}

// promptConfig asks for the values pulse init sets, starting from cfg.
func promptConfig(cfg *config.Config, sshConfigPath string) error {
	port := strconv.Itoa(cfg.Port)
	remote := cfg.Remote

	var hosts []sshutil.SSHHostEntry
	var err error
	if sshConfigPath == "" {
		hosts, err = sshutil.ParseSSHConfig()
	} else {
		hosts, err = sshutil.ParseSSHConfigFile(sshConfigPath)
	}
	if err != nil {
		hosts = nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Process to watch").
				Description("Matched against process names by the probes (pgrep, ps, ss)").
				Placeholder("chrome").
				Value(&cfg.Target).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a process name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Port").
				Description("The collector listens here and the display connects here").
				Value(&port).
				Validate(validatePort),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where do the probes run?").
				Options(remoteOptions(hosts)...).
				Value(&remote),
		),
	)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive")
	}

	if remote == manualRemote {
		remote = ""
		manual := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("SSH host").
				Description("hostname, user@host[:port] or an alias from ~/.ssh/config").
				Value(&remote).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("SSH host is required")
					}
					return nil
				}),
		))
		if err := manual.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Pass the host with --remote instead")
		}
	}

	cfg.Port, _ = strconv.Atoi(port)
	cfg.Remote = strings.TrimSpace(remote)
	return nil
}

// remoteOptions lists "this machine", every SSH config alias, and manual entry.
func remoteOptions(hosts []sshutil.SSHHostEntry) []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption("This machine", "")}
	for _, h := range hosts {
		label := h.Alias
		if desc := h.Description(); desc != h.Alias {
			label = fmt.Sprintf("%s (%s)", h.Alias, desc)
		}
		options = append(options, huh.NewOption(label, h.Alias))
	}
	return append(options, huh.NewOption("Another SSH host...", manualRemote))
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("port must be a number from 1 to 65535")
	}
	return nil
}

// checkRemote tests the SSH host. Interactively a failure can be saved
// anyway; otherwise it is an error.
func checkRemote(ctx context.Context, host string, opts InitOptions, out io.Writer) error {
	spinner := ui.NewSpinner(out, "Testing connection to "+host)
	spinner.Start()
	err := opts.TestRemote(ctx, host)
	if err == nil {
		spinner.Success()
		return nil
	}
	spinner.Fail()

	failure := errors.WrapWithCode(err, errors.ErrSSH,
		fmt.Sprintf("Connection to '%s' failed", host),
		"Check that the host is reachable: ssh "+host)
	if opts.NonInteractive {
		return failure
	}

	var saveAnyway bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Save config anyway? (You can fix the connection later)").
			Value(&saveAnyway),
	))
	if formErr := form.Run(); formErr != nil || !saveAnyway {
		return failure
	}
	return nil
}

func dialRemote(ctx context.Context, host string) error {
	client, err := sshutil.Dial(ctx, host, 10*time.Second)
	if err != nil {
		return err
	}
	return client.Close()
}
