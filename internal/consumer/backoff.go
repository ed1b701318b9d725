package consumer

import "time"

type backoff struct {
	base time.Duration
	cur  time.Duration
	max  time.Duration
}

// newBackoff returns an exponential backoff starting at base and capped at max.
func newBackoff(base, max time.Duration) *backoff {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if max < base {
		max = base
	}
	return &backoff{base: base, cur: base, max: max}
}

// Next returns the next delay and doubles the one after it, up to max.
func (b *backoff) Next() time.Duration {
	d := b.cur
	b.cur *= 2
	if b.cur > b.max {
		b.cur = b.max
	}
	return d
}
