package core

import (
	"time"
)

// TestRef identifies a single test file within a suite.
type TestRef string

// DurationSample is one observed execution of a test within the lookback window.
type DurationSample struct {
	Test        TestRef
	DurationSec float64
	ObservedAt  time.Time
}

// CostReducer collapses the observed durations of a test into a single
// estimated cost in seconds. The reduction materially affects shard balance,
// so it is injected rather than fixed.
type CostReducer func(samples []DurationSample) float64

// DurationCatalog maps tests to their observed durations within the lookback window.
type DurationCatalog interface {
	// Lookup returns the duration samples for the test, possibly none.
	Lookup(test TestRef) []DurationSample
}

// TestStatsCatalog is an in-memory DurationCatalog.
type TestStatsCatalog map[TestRef][]DurationSample

// Lookup returns the duration samples for the test.
func (c TestStatsCatalog) Lookup(test TestRef) []DurationSample {
	return c[test]
}

// SplitConfig controls how a suite is partitioned into sub-suites.
type SplitConfig struct {
	TargetSuiteTime  time.Duration
	MaxSubSuites     int
	MaxTestsPerSuite int
	LookbackStart    time.Time
	LookbackEnd      time.Time
}

// SplitParams identifies the suite being partitioned.
type SplitParams struct {
	TaskName     string
	SuiteName    string
	BuildVariant string
	CreateMisc   bool
	Tests        []TestRef
}

// SubSuite is one generated bin of tests. It is mutable only while the
// splitter builds it; consumers treat it as read-only.
type SubSuite struct {
	Index         int
	Members       []TestRef
	EstimatedCost float64
	// MaxTestCost is the largest single-test cost in the bin, used to bound
	// silent periods rather than total runtime.
	MaxTestCost   float64
	HasTimingData bool
}

// GeneratedSuite is the result of partitioning one suite. Built once by the
// splitter and read-only afterwards.
type GeneratedSuite struct {
	TaskName     string
	SuiteName    string
	BuildVariant string
	SubSuites    []*SubSuite
	// Misc is the catch-all sub-suite. Present only when requested via
	// SplitParams.CreateMisc; it may be empty.
	Misc       *SubSuite
	TotalTests int
	// OverflowApplied is set when tests were routed to misc or appended past
	// the per-suite cap. Informational, not an error.
	OverflowApplied bool
}

// BinCount returns the number of primary (non-misc) sub-suites.
func (g *GeneratedSuite) BinCount() int {
	return len(g.SubSuites)
}

// SuiteSplitter partitions a test list into sub-suites.
type SuiteSplitter interface {
	// Split partitions the tests in params into a GeneratedSuite, balancing
	// on historic cost when the catalog covers every test and falling back
	// to round robin otherwise.
	Split(params SplitParams, catalog DurationCatalog, config SplitConfig) (*GeneratedSuite, error)
}
