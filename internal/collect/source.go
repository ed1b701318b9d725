// Package collect gathers metric records for each category.
//
// The producer only sees the Source interface. ProbeSource implements it by
// running shell probes through a Runner, either locally or over SSH.
package collect

import (
	"context"

	"github.com/rileyhilliard/pulse/internal/wire"
)

// Source produces the records for one category. An empty result or an error
// means the category has no data this cycle.
type Source interface {
	Collect(ctx context.Context, category wire.Category) ([]wire.Record, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, category wire.Category) ([]wire.Record, error)

// Collect calls f.
func (f SourceFunc) Collect(ctx context.Context, category wire.Category) ([]wire.Record, error) {
	return f(ctx, category)
}
