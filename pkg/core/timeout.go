package core

import "time"

// TimeoutEstimate is the recommended timeouts for one generated sub-task.
// A zero IsSpecified means the platform default applies, e.g. for the misc
// suite or bins without timing data.
type TimeoutEstimate struct {
	ExecTimeout Timeout
	IdleTimeout Timeout
	IsSpecified bool
}

// Timeout is a duration rounded up to whole seconds for the CI config.
type Timeout time.Duration

// Seconds returns the timeout as integer seconds.
func (t Timeout) Seconds() int {
	return int(time.Duration(t) / time.Second)
}

// TimeoutEstimator derives task timeouts from a sub-suite's historic cost.
type TimeoutEstimator interface {
	Estimate(subSuite *SubSuite) TimeoutEstimate
}
