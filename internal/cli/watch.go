package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pulse/internal/config"
	"github.com/rileyhilliard/pulse/internal/consumer"
	"github.com/rileyhilliard/pulse/internal/display"
	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/frame"
	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/wire"
)

// dialTimeout bounds a single connection attempt to the collector.
const dialTimeout = 5 * time.Second

var watchOpts watchFlags

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Connect to a collector and show the dashboard",
	Long: `Connect to a collector and draw one box per category, sized to fit the
terminal. The display keeps the last payload of every category and redraws
them when the terminal is resized.

Keys:
  q / Ctrl+C  Quit
  ?           More keys

With --spawn a collector is started on this machine first and stopped when
the display exits. With --plain, or when stdout is not a terminal, payloads
are printed as text blocks instead.

Examples:
  pulse watch
  pulse watch --host 10.0.0.5 --port 9000
  pulse watch --spawn --log-file /tmp/pulse.log
  pulse watch --plain | head -40`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig(cmd, watchOpts.apply)
		if err != nil {
			return err
		}
		return runWatch(cmd.Context(), cfg, path, watchOpts)
	},
}

func init() {
	watchOpts.register(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, cfg *config.Config, configPath string, opts watchFlags) error {
	plain := opts.Plain || !display.IsTerminal(os.Stdout)

	// The dashboard owns the terminal; logs go to --log-file or nowhere.
	logOut := io.Writer(os.Stderr)
	if !plain {
		w, closeLog, err := openLogFile(opts.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()
		logOut = w
		prev := log.Writer()
		log.SetOutput(w)
		defer log.SetOutput(prev)
	}
	wlog := logger.NewEnvLogger("[watch]")

	addr := cfg.DialAddr()
	var conn net.Conn
	if cfg.Display.Spawn {
		child, err := spawnCollector(cfg.Port, configPath, logOut, wlog)
		if err != nil {
			return err
		}
		defer child.Stop()

		dialCtx, cancel := child.WatchContext(ctx)
		retry := consumer.DefaultRetryConfig()
		retry.Logger = wlog
		addr = net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Port))
		conn, err = consumer.DialRetry(dialCtx, addr, retry)
		cancel()
		if err != nil {
			select {
			case <-child.Exited():
				return errors.WrapWithCode(child.Err(), errors.ErrExec,
					"The spawned collector exited before accepting a connection",
					fmt.Sprintf("Run 'pulse collect --port %d' to see why.", cfg.Port))
			default:
			}
			return err
		}
	} else {
		var err error
		conn, err = consumer.Dial(ctx, addr, dialTimeout)
		if err != nil {
			return err
		}
	}
	defer conn.Close()
	wlog.Debug("connected to %s", addr)

	var err error
	if plain {
		err = watchPlain(ctx, conn, cfg, os.Stdout, wlog)
	} else {
		err = watchTUI(ctx, conn, cfg, addr, wlog)
	}
	return streamOutcome(err, wlog)
}

// streamOutcome maps the consumer's result to the command's. A collector
// ending the stream is a normal way for the display to finish.
func streamOutcome(err error, log logger.Logger) error {
	if stderrors.Is(err, frame.ErrConnectionClosed) {
		log.Info("collector closed the stream")
		return nil
	}
	return err
}

func watchTUI(ctx context.Context, conn net.Conn, cfg *config.Config, source string, log logger.Logger) error {
	var c *consumer.Consumer
	model := display.NewModel(display.Options{
		Source:   source,
		Frames:   func() uint64 { return c.Stats().Frames },
		OnResize: func(w, h int) { c.NotifyResize(w, h) },
		OnQuit:   func() { c.Quit() },
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	c = consumer.New(conn, consumer.NewLayout(display.NewProgramRenderer(program)), consumer.Options{
		PollInterval: cfg.Display.PollInterval,
		Logger:       log,
	})

	streamErr := make(chan error, 1)
	go func() {
		err := c.Run(ctx)
		streamErr <- err
		program.Send(display.StreamEndedMsg{Err: err})
	}()

	_, runErr := program.Run()
	c.Quit()
	err := <-streamErr

	if runErr != nil && !stderrors.Is(runErr, tea.ErrProgramKilled) && !stderrors.Is(runErr, tea.ErrInterrupted) {
		return errors.Wrap(runErr, "The dashboard stopped unexpectedly")
	}
	return err
}

func watchPlain(ctx context.Context, conn consumer.Conn, cfg *config.Config, out io.Writer, log logger.Logger) error {
	r := display.NewPlainRenderer(out)
	categories := wire.Categories()
	c := consumer.New(conn, consumer.NewLayout(r, categories...), consumer.Options{
		PollInterval: cfg.Display.PollInterval,
		Logger:       log,
	})
	c.NotifyResize(display.PlainScreen(categories))

	err := c.Run(ctx)
	if werr := r.Err(); werr != nil {
		return errors.Wrap(werr, "Can't write to stdout")
	}
	return err
}

// openLogFile opens path for appending, or discards logs when path is empty.
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't open log file %s", path),
			"Pick a writable path for --log-file.")
	}
	return f, func() { f.Close() }, nil
}
