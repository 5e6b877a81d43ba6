package timeout

import (
	"math"
	"time"

	"github.com/suitegen/suitegen/pkg/constants"
	"github.com/suitegen/suitegen/pkg/core"
	"github.com/suitegen/suitegen/pkg/lumber"
)

// Config tunes how timeouts are derived from historic runtimes.
type Config struct {
	// ScalingFactor inflates summed per-test means to cover tail latency.
	// Must be greater than 1.
	ScalingFactor float64
	// ExecOverhead covers fixture startup and teardown.
	ExecOverhead time.Duration
	// IdleOverhead pads the longest single test for the no-output bound.
	IdleOverhead time.Duration
	// MinTimeout is the floor below which no estimate is clamped.
	MinTimeout time.Duration
	// MaxTimeout caps the execution timeout so hangs are not masked.
	// Zero disables the ceiling.
	MaxTimeout time.Duration
}

// DefaultConfig returns the stock timeout tuning.
func DefaultConfig() Config {
	return Config{
		ScalingFactor: constants.DefaultTimeoutScalingFactor,
		ExecOverhead:  constants.DefaultExecTimeoutOverhead,
		IdleOverhead:  constants.DefaultIdleTimeoutOverhead,
		MinTimeout:    constants.MinTaskTimeout,
	}
}

type estimator struct {
	logger lumber.Logger
	cfg    Config
}

// New returns a TimeoutEstimator with the given tuning.
func New(cfg Config, logger lumber.Logger) core.TimeoutEstimator {
	if cfg.ScalingFactor <= 1 {
		cfg.ScalingFactor = constants.DefaultTimeoutScalingFactor
	}
	return &estimator{logger: logger, cfg: cfg}
}

// Estimate derives the execution and idle timeouts for a sub-suite. Bins
// without timing data, including the misc suite, get an unspecified estimate
// so the platform default applies.
//
// The execution timeout scales the summed per-test means, matching the
// packing objective of total work per bin; the idle timeout scales only the
// single longest test, since it guards a hung test rather than aggregate
// slowness.
func (e *estimator) Estimate(subSuite *core.SubSuite) core.TimeoutEstimate {
	if subSuite == nil || !subSuite.HasTimingData || len(subSuite.Members) == 0 {
		return core.TimeoutEstimate{}
	}

	exec := e.scale(subSuite.EstimatedCost) + e.cfg.ExecOverhead
	exec = e.clamp(exec)
	idle := e.scale(subSuite.MaxTestCost) + e.cfg.IdleOverhead
	idle = e.clamp(idle)
	if idle > exec {
		idle = exec
	}

	e.logger.Debugf("sub-suite %d: estimated cost %.1fs, exec timeout %s, idle timeout %s",
		subSuite.Index, subSuite.EstimatedCost, exec, idle)
	return core.TimeoutEstimate{
		ExecTimeout: core.Timeout(exec),
		IdleTimeout: core.Timeout(idle),
		IsSpecified: true,
	}
}

// scale inflates a cost in seconds and rounds it up to whole seconds.
func (e *estimator) scale(costSec float64) time.Duration {
	return time.Duration(math.Ceil(costSec*e.cfg.ScalingFactor)) * time.Second
}

func (e *estimator) clamp(d time.Duration) time.Duration {
	if d < e.cfg.MinTimeout {
		d = e.cfg.MinTimeout
	}
	if e.cfg.MaxTimeout > 0 && d > e.cfg.MaxTimeout {
		d = e.cfg.MaxTimeout
	}
	return d
}
