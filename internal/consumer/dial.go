package consumer

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/logger"
)

// Dial connects to a collector once.
func Dial(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error) {
	conn, err := dial(ctx, addr, timeout)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrNet,
			fmt.Sprintf("Can't connect to the collector at %s", addr),
			"Start one with 'pulse collect', or run 'pulse watch --spawn'.")
	}
	return conn, nil
}

func dial(ctx context.Context, addr string, timeout time.Duration) (net.Conn, error) {
	d := net.Dialer{Timeout: timeout}
	return d.DialContext(ctx, "tcp", addr)
}

// RetryConfig controls DialRetry.
type RetryConfig struct {
	// Deadline bounds the whole retry sequence.
	Deadline time.Duration
	// BaseDelay is the first wait between attempts; MaxDelay caps later ones.
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// AttemptTimeout bounds each connection attempt.
	AttemptTimeout time.Duration
	Logger         logger.Logger
}

// DefaultRetryConfig suits a collector that was just started locally.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Deadline:       5 * time.Second,
		BaseDelay:      50 * time.Millisecond,
		MaxDelay:       time.Second,
		AttemptTimeout: time.Second,
	}
}

// DialRetry dials addr until it succeeds, ctx ends or cfg.Deadline passes,
// waiting with exponential backoff between attempts.
func DialRetry(ctx context.Context, addr string, cfg RetryConfig) (net.Conn, error) {
	if cfg.Logger == nil {
		cfg.Logger = logger.Noop()
	}
	if cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Deadline)
		defer cancel()
	}

	b := newBackoff(cfg.BaseDelay, cfg.MaxDelay)
	var lastErr error
	for attempt := 1; ; attempt++ {
		conn, err := dial(ctx, addr, cfg.AttemptTimeout)
		if err == nil {
			cfg.Logger.Debug("connected to %s after %d attempts", addr, attempt)
			return conn, nil
		}
		if ctx.Err() == nil || lastErr == nil {
			lastErr = err
		}

		wait := b.Next()
		cfg.Logger.Debug("dial %s attempt %d failed: %v (retrying in %s)", addr, attempt, err, wait)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, errors.WrapWithCode(lastErr, errors.ErrNet,
				fmt.Sprintf("Collector at %s did not accept a connection after %d attempts", addr, attempt),
				"Run 'pulse collect' yourself to see why it isn't starting.")
		case <-t.C:
		}
	}
}
