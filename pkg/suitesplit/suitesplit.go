package suitesplit

import (
	"math"
	"sort"

	"github.com/suitegen/suitegen/pkg/binheap"
	"github.com/suitegen/suitegen/pkg/core"
	errs "github.com/suitegen/suitegen/pkg/errors"
	"github.com/suitegen/suitegen/pkg/lumber"
	"github.com/suitegen/suitegen/pkg/utils"
)

type suiteSplitter struct {
	logger lumber.Logger
	reduce core.CostReducer
}

// New returns a new SuiteSplitter. A nil reducer defaults to MeanCost.
func New(reduce core.CostReducer, logger lumber.Logger) core.SuiteSplitter {
	if reduce == nil {
		reduce = MeanCost
	}
	return &suiteSplitter{
		logger: logger,
		reduce: reduce,
	}
}

// MeanCost is the default cost reduction: the arithmetic mean of the
// observed durations.
func MeanCost(samples []core.DurationSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var total float64
	for i := range samples {
		total += samples[i].DurationSec
	}
	return total / float64(len(samples))
}

// Split partitions the tests into sub-suites. The cost balancing strategy is
// used when the catalog holds at least one sample for every test; any gap in
// the data switches the whole suite to round robin, since mixing known and
// unknown costs would bias the balance.
func (s *suiteSplitter) Split(params core.SplitParams, catalog core.DurationCatalog,
	config core.SplitConfig) (*core.GeneratedSuite, error) {
	if config.MaxSubSuites < 1 || config.MaxTestsPerSuite < 1 {
		return nil, errs.ErrInvalidSplitConfig
	}
	suite := &core.GeneratedSuite{
		TaskName:     params.TaskName,
		SuiteName:    params.SuiteName,
		BuildVariant: params.BuildVariant,
		TotalTests:   len(params.Tests),
	}
	// an empty test list yields nothing at all, not even a misc suite
	if len(params.Tests) == 0 {
		return suite, nil
	}
	if params.CreateMisc {
		suite.Misc = &core.SubSuite{Index: -1}
	}

	costs, complete := s.reduceCosts(params.Tests, catalog)
	if complete {
		s.greedyDivision(suite, params, costs, config)
	} else {
		s.logger.Debugf("missing timing data for task %s on variant %s, falling back to round robin",
			params.TaskName, params.BuildVariant)
		s.roundRobin(suite, params, config)
	}
	return suite, nil
}

// reduceCosts collapses each test's samples to a scalar cost. The second
// return value reports whether every test had at least one sample.
func (s *suiteSplitter) reduceCosts(tests []core.TestRef,
	catalog core.DurationCatalog) (map[core.TestRef]float64, bool) {
	costs := make(map[core.TestRef]float64, len(tests))
	complete := true
	for _, test := range tests {
		var samples []core.DurationSample
		if catalog != nil {
			samples = catalog.Lookup(test)
		}
		if len(samples) == 0 {
			complete = false
			continue
		}
		costs[test] = s.reduce(samples)
	}
	return costs, complete
}

// greedyDivision packs tests largest-first onto the least-loaded bin (LPT).
// The makespan is not optimal but stays within 4/3 - 1/(3k) of it for k bins.
func (s *suiteSplitter) greedyDivision(suite *core.GeneratedSuite, params core.SplitParams,
	costs map[core.TestRef]float64, config core.SplitConfig) {
	tests := make([]core.TestRef, len(params.Tests))
	copy(tests, params.Tests)
	// largest first, identifier order on ties so repeated runs agree
	sort.SliceStable(tests, func(i, j int) bool {
		if costs[tests[i]] == costs[tests[j]] {
			return tests[i] < tests[j]
		}
		return costs[tests[i]] > costs[tests[j]]
	})

	var totalCost float64
	for _, cost := range costs {
		totalCost += cost
	}
	binCount := binCountForCost(totalCost, len(tests), config)

	bins := make([]*core.Bin, 0, config.MaxSubSuites)
	heap := binheap.New(binCount)
	bins = append(bins, (*heap)...)

	for _, test := range tests {
		if heap.Assign(test, costs[test], config.MaxTestsPerSuite) {
			continue
		}
		// every open bin is at capacity
		if len(bins) < config.MaxSubSuites {
			bins = append(bins, heap.Grow(len(bins)))
			heap.Assign(test, costs[test], config.MaxTestsPerSuite)
			continue
		}
		suite.OverflowApplied = true
		if suite.Misc != nil {
			miscAdd(suite.Misc, test, costs[test])
			continue
		}
		// no misc requested: force-append past the cap rather than drop the
		// test, at the price of one oversized trailing bin
		last := bins[len(bins)-1]
		last.Add(test, costs[test])
	}
	if suite.OverflowApplied {
		s.logger.Warnf("per-suite cap %d hit for task %s, overflow routed to %s",
			config.MaxTestsPerSuite, params.TaskName, overflowTarget(suite.Misc != nil))
	}

	suite.SubSuites = make([]*core.SubSuite, 0, len(bins))
	for i, bin := range bins {
		suite.SubSuites = append(suite.SubSuites, &core.SubSuite{
			Index:         i,
			Members:       bin.Members,
			EstimatedCost: bin.TotalCost,
			MaxTestCost:   bin.MaxCost,
			HasTimingData: true,
		})
	}
}

// roundRobin distributes the tests cyclically in input order, ignoring cost.
func (s *suiteSplitter) roundRobin(suite *core.GeneratedSuite, params core.SplitParams,
	config core.SplitConfig) {
	binCount := utils.Min(config.MaxSubSuites,
		int(math.Ceil(float64(len(params.Tests))/float64(config.MaxTestsPerSuite))))
	binCount = utils.Max(binCount, 1)

	suite.SubSuites = make([]*core.SubSuite, binCount)
	for i := 0; i < binCount; i++ {
		suite.SubSuites[i] = &core.SubSuite{Index: i}
	}
	for i, test := range params.Tests {
		sub := suite.SubSuites[i%binCount]
		sub.Members = append(sub.Members, test)
	}
}

// binCountForCost derives the target bin count from the total estimated cost
// and the wall-clock budget, clamped to the configured maximum and the number
// of tests available.
func binCountForCost(totalCost float64, testCount int, config core.SplitConfig) int {
	target := config.TargetSuiteTime.Seconds()
	count := 1
	if target > 0 {
		count = int(math.Ceil(totalCost / target))
	}
	count = utils.Max(count, 1)
	count = utils.Min(count, config.MaxSubSuites)
	return utils.Min(count, testCount)
}

func miscAdd(misc *core.SubSuite, test core.TestRef, cost float64) {
	misc.Members = append(misc.Members, test)
	misc.EstimatedCost += cost
	if cost > misc.MaxTestCost {
		misc.MaxTestCost = cost
	}
}

func overflowTarget(hasMisc bool) string {
	if hasMisc {
		return "misc suite"
	}
	return "last sub-suite"
}
