package consumer

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/frame"
	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/wire"
)

// DefaultPollInterval bounds how long one receive waits before the loop
// checks for quit and resize again.
const DefaultPollInterval = 100 * time.Millisecond

// Conn is the part of a connection the consumer reads from.
type Conn interface {
	io.Reader
	SetReadDeadline(t time.Time) error
}

// Options tune a Consumer.
type Options struct {
	PollInterval time.Duration
	Logger       logger.Logger
}

// Consumer reads payloads from a collector connection into a Layout.
type Consumer struct {
	conn   Conn
	reader *frame.Reader
	layout *Layout
	poll   time.Duration
	log    logger.Logger

	quit     chan struct{}
	quitOnce sync.Once

	resized atomic.Bool
	width   atomic.Int64
	height  atomic.Int64
}

// New returns a Consumer reading from conn into layout.
func New(conn Conn, layout *Layout, opts Options) *Consumer {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	return &Consumer{
		conn:   conn,
		reader: frame.NewReader(conn),
		layout: layout,
		poll:   opts.PollInterval,
		log:    opts.Logger,
		quit:   make(chan struct{}),
	}
}

// NotifyResize records a new screen size for the loop to apply. It only
// touches atomics, so it may be called from any goroutine.
func (c *Consumer) NotifyResize(width, height int) {
	c.width.Store(int64(width))
	c.height.Store(int64(height))
	c.resized.Store(true)
}

// Quit asks Run to return. It is safe to call more than once.
func (c *Consumer) Quit() {
	c.quitOnce.Do(func() { close(c.quit) })
}

// Stats returns the frames and bytes received so far.
func (c *Consumer) Stats() frame.Stats {
	return c.reader.Stats()
}

// Run receives payloads until quit, ctx cancellation or a stream error.
// It returns nil on quit or cancellation, frame.ErrConnectionClosed when the
// collector ends the stream, and a coded error for anything else.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			c.discardPending()
			return nil
		case <-c.quit:
			c.discardPending()
			return nil
		default:
		}

		if c.resized.Swap(false) {
			w, h := int(c.width.Load()), int(c.height.Load())
			pw, ph := c.layout.Size()
			c.log.Debug("resize %dx%d -> %dx%d", pw, ph, w, h)
			c.layout.Resize(w, h)
		}

		if err := c.conn.SetReadDeadline(time.Now().Add(c.poll)); err != nil {
			return errors.WrapWithCode(err, errors.ErrNet,
				"Can't set a read deadline on the collector connection", "")
		}
		p, err := c.reader.ReceiveOne()
		if err != nil {
			if frame.IsTimeout(err) {
				continue
			}
			return classify(err)
		}
		c.layout.Update(p)
	}
}

// discardPending notes a frame cut short by quitting.
func (c *Consumer) discardPending() {
	if n := c.reader.Buffered(); n > 0 {
		c.log.Debug("discarding %d bytes of an incomplete frame", n)
	}
}

func classify(err error) error {
	switch {
	case stderrors.Is(err, frame.ErrConnectionClosed):
		return err
	case wire.IsDecodeError(err), stderrors.Is(err, frame.ErrFrameTooLarge):
		return errors.WrapWithCode(err, errors.ErrProtocol,
			"Received a malformed frame from the collector",
			"Make sure the collector and display run the same pulse version.")
	}
	return errors.WrapWithCode(err, errors.ErrNet,
		"Lost the connection to the collector",
		"Check that 'pulse collect' is still running.")
}
