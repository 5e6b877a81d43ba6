package core

import (
	"context"
	"time"
)

// StatsProvider fetches historic per-test durations from the CI provider.
type StatsProvider interface {
	// FetchCatalog returns the duration catalog for the given task and build
	// variant over the [start, end) window. Returns ErrStatsUnavailable when
	// the provider cannot serve the window; callers degrade to the fallback
	// split strategy instead of failing.
	FetchCatalog(ctx context.Context, project, taskName, buildVariant string,
		start, end time.Time) (DurationCatalog, error)
}
