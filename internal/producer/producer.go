package producer

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/pulse/internal/collect"
	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/frame"
	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/util"
	"github.com/rileyhilliard/pulse/internal/wire"
)

// statsEvery is how many cycles pass between traffic log lines.
const statsEvery = 100

// Defaults for unset Config durations.
const (
	DefaultInterval       = 750 * time.Millisecond
	DefaultCollectTimeout = 500 * time.Millisecond
)

// Config controls a Producer.
type Config struct {
	// Addr is the host:port to listen on.
	Addr string
	// Interval is the cycle cadence. Zero or negative means DefaultInterval.
	Interval time.Duration
	// CollectTimeout bounds each Source.Collect call. Zero or negative means
	// DefaultCollectTimeout.
	CollectTimeout time.Duration
	// Categories are collected in this order each cycle. Defaults to
	// wire.Categories().
	Categories []wire.Category
	// OnStateChange, if set, is called on every state transition from the
	// Run goroutine.
	OnStateChange func(State)
}

// Producer serves collected metrics to one display at a time.
type Producer struct {
	cfg    Config
	source collect.Source
	log    logger.Logger

	state atomic.Int32

	mu    sync.Mutex
	addr  net.Addr
	ready chan struct{}
}

// New returns a Producer reading from source.
func New(cfg Config, source collect.Source, log logger.Logger) *Producer {
	if log == nil {
		log = logger.Noop()
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = wire.Categories()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.CollectTimeout <= 0 {
		cfg.CollectTimeout = DefaultCollectTimeout
	}
	p := &Producer{
		cfg:    cfg,
		source: source,
		log:    log,
		ready:  make(chan struct{}),
	}
	p.state.Store(int32(Listening))
	return p
}

// State returns the current lifecycle phase.
func (p *Producer) State() State {
	return State(p.state.Load())
}

// Ready is closed once the listener is bound.
func (p *Producer) Ready() <-chan struct{} {
	return p.ready
}

// Addr returns the bound listener address, or nil before Ready.
func (p *Producer) Addr() net.Addr {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.addr
}

func (p *Producer) setState(s State) {
	p.state.Store(int32(s))
	if p.cfg.OnStateChange != nil {
		p.cfg.OnStateChange(s)
	}
}

// Run listens and serves displays until ctx is cancelled. It returns nil on
// shutdown and an error for bind failures or an unexpected accept failure.
func (p *Producer) Run(ctx context.Context) error {
	ln, err := Listen(ctx, p.cfg.Addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrNet,
			fmt.Sprintf("Can't listen on %s", p.cfg.Addr),
			"Is another collector already running? Pick another port with --port.")
	}
	defer ln.Close()

	p.mu.Lock()
	p.addr = ln.Addr()
	p.mu.Unlock()
	close(p.ready)
	p.log.Info("listening on %s", ln.Addr())

	// Accept does not take a context; closing the listener unblocks it.
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	for {
		p.setState(Listening)
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, net.ErrClosed) {
				p.setState(Terminated)
				return nil
			}
			p.setState(Terminated)
			return errors.WrapWithCode(err, errors.ErrNet,
				"Accepting a display connection failed",
				"Restart the collector.")
		}

		p.setState(Connected)
		p.log.Info("display connected from %s", conn.RemoteAddr())
		err = p.serve(ctx, conn)
		conn.Close()
		p.setState(Terminated)

		if ctx.Err() != nil {
			return nil
		}
		p.log.Info("display session ended: %v", err)
	}
}

// serve streams cycles to conn until a send fails or ctx ends.
func (p *Producer) serve(ctx context.Context, conn net.Conn) error {
	// A blocked Write does not watch ctx; closing the connection unblocks it.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	w := frame.NewWriter(conn)
	defer func() {
		st := w.Stats()
		p.log.Info("sent %s %s (%s) to %s",
			humanize.Comma(int64(st.Frames)), util.Pluralize(int(st.Frames), "frame", "frames"),
			humanize.Bytes(st.Bytes), conn.RemoteAddr())
	}()

	p.setState(Streaming)
	for cycle := 1; ; cycle++ {
		start := time.Now()
		if err := p.cycle(ctx, w); err != nil {
			return errors.WrapWithCode(err, errors.ErrNet,
				"Lost the display connection",
				"The collector keeps listening; reconnect with 'pulse watch'.")
		}
		if cycle%statsEvery == 0 {
			st := w.Stats()
			p.log.Debug("cycle %s: %s frames, %s sent", humanize.Comma(int64(cycle)),
				humanize.Comma(int64(st.Frames)), humanize.Bytes(st.Bytes))
		}
		if !sleep(ctx, Dwell(p.cfg.Interval, time.Since(start))) {
			return ctx.Err()
		}
	}
}

// cycle collects every category once and sends the non-empty ones.
func (p *Producer) cycle(ctx context.Context, w *frame.Writer) error {
	for _, category := range p.cfg.Categories {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		records, ok := p.collect(ctx, category)
		if !ok {
			continue
		}
		if err := w.Send(wire.Payload{Category: category, Records: records}); err != nil {
			return err
		}
	}
	return nil
}

type collectResult struct {
	records []wire.Record
	err     error
}

// collect runs Source.Collect under the collect timeout. It reports false
// when the category has no data this cycle.
func (p *Producer) collect(ctx context.Context, category wire.Category) ([]wire.Record, bool) {
	cctx, cancel := context.WithTimeout(ctx, p.cfg.CollectTimeout)
	defer cancel()

	done := make(chan collectResult, 1)
	go func() {
		records, err := p.source.Collect(cctx, category)
		done <- collectResult{records: records, err: err}
	}()

	select {
	case <-cctx.Done():
		p.log.Debug("%s: no data, collection timed out after %s", category, p.cfg.CollectTimeout)
		return nil, false
	case res := <-done:
		switch {
		case res.err != nil:
			p.log.Debug("%s: no data: %v", category, res.err)
			return nil, false
		case len(res.records) == 0:
			p.log.Debug("%s: no data", category)
			return nil, false
		}
		return res.records, true
	}
}

// Dwell is how long to sleep after a cycle that took elapsed, so cycles start
// every cadence. It is never negative.
func Dwell(cadence, elapsed time.Duration) time.Duration {
	if elapsed >= cadence {
		return 0
	}
	return cadence - elapsed
}

// sleep waits for d or until ctx ends. It reports whether the full duration
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
