package suitesplit

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/suitegen/suitegen/pkg/core"
	errs "github.com/suitegen/suitegen/pkg/errors"
	"github.com/suitegen/suitegen/pkg/lumber"
)

func newTestLogger(t *testing.T) lumber.Logger {
	logger, err := lumber.NewLogger(&lumber.LoggingConfig{}, false, lumber.InstanceZapLogger)
	if err != nil {
		t.Fatalf("could not create logger: %v", err)
	}
	return logger
}

func catalogOf(costs map[string]float64) core.TestStatsCatalog {
	catalog := core.TestStatsCatalog{}
	for test, cost := range costs {
		ref := core.TestRef(test)
		catalog[ref] = []core.DurationSample{{Test: ref, DurationSec: cost, ObservedAt: time.Now()}}
	}
	return catalog
}

func testRefs(names ...string) []core.TestRef {
	refs := make([]core.TestRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, core.TestRef(name))
	}
	return refs
}

// allMembers collects every assigned test, misc included, and fails on
// duplicates.
func allMembers(t *testing.T, suite *core.GeneratedSuite) map[core.TestRef]bool {
	seen := map[core.TestRef]bool{}
	record := func(sub *core.SubSuite) {
		for _, test := range sub.Members {
			if seen[test] {
				t.Errorf("test %s assigned twice", test)
			}
			seen[test] = true
		}
	}
	for _, sub := range suite.SubSuites {
		record(sub)
	}
	if suite.Misc != nil {
		record(suite.Misc)
	}
	return seen
}

func TestSplitRejectsInvalidConfig(t *testing.T) {
	splitter := New(nil, newTestLogger(t))
	configs := []core.SplitConfig{
		{MaxSubSuites: 0, MaxTestsPerSuite: 10},
		{MaxSubSuites: 3, MaxTestsPerSuite: 0},
	}
	for _, config := range configs {
		if _, err := splitter.Split(core.SplitParams{Tests: testRefs("a")}, nil, config); err != errs.ErrInvalidSplitConfig {
			t.Errorf("Expected ErrInvalidSplitConfig, got %v", err)
		}
	}
}

func TestSplitEmptyTestList(t *testing.T) {
	splitter := New(nil, newTestLogger(t))
	config := core.SplitConfig{MaxSubSuites: 3, MaxTestsPerSuite: 10}

	suite, err := splitter.Split(core.SplitParams{TaskName: "core"}, nil, config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if suite.BinCount() != 0 {
		t.Errorf("Expected no sub-suites, got %d", suite.BinCount())
	}
	if suite.Misc != nil {
		t.Errorf("Expected no misc suite without create_misc")
	}

	// create_misc makes no difference without tests
	suite, err = splitter.Split(core.SplitParams{TaskName: "core", CreateMisc: true}, nil, config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if suite.Misc != nil {
		t.Errorf("Expected no misc suite for an empty test list")
	}
}

func TestSplitCreatesMiscSuite(t *testing.T) {
	splitter := New(nil, newTestLogger(t))
	config := core.SplitConfig{MaxSubSuites: 3, MaxTestsPerSuite: 10}

	suite, err := splitter.Split(core.SplitParams{TaskName: "core", CreateMisc: true, Tests: testRefs("a")}, nil, config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if suite.Misc == nil {
		t.Errorf("Expected misc suite with create_misc and a non-empty test list")
	}
}

func TestSplitGreedyBalancesBins(t *testing.T) {
	costs := map[string]float64{
		"t1": 50, "t2": 40, "t3": 30, "t4": 20, "t5": 10, "t6": 5, "t7": 5,
	}
	params := core.SplitParams{
		TaskName:     "core",
		SuiteName:    "core",
		BuildVariant: "linux-64",
		Tests:        testRefs("t1", "t2", "t3", "t4", "t5", "t6", "t7"),
	}
	config := core.SplitConfig{
		TargetSuiteTime:  60 * time.Second,
		MaxSubSuites:     3,
		MaxTestsPerSuite: 10,
	}

	splitter := New(nil, newTestLogger(t))
	suite, err := splitter.Split(params, catalogOf(costs), config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if suite.BinCount() != 3 {
		t.Fatalf("Expected 3 sub-suites, got %d", suite.BinCount())
	}
	seen := allMembers(t, suite)
	if len(seen) != len(params.Tests) {
		t.Errorf("Expected all %d tests assigned, got %d", len(params.Tests), len(seen))
	}

	var minCost, maxCost float64
	for i, sub := range suite.SubSuites {
		if !sub.HasTimingData {
			t.Errorf("Expected timing data on sub-suite %d", i)
		}
		if i == 0 || sub.EstimatedCost < minCost {
			minCost = sub.EstimatedCost
		}
		if sub.EstimatedCost > maxCost {
			maxCost = sub.EstimatedCost
		}
	}
	// LPT keeps the spread small for this distribution: [55, 55, 50]
	if maxCost-minCost > 10 {
		t.Errorf("Expected balanced bins, got spread %f (max %f, min %f)", maxCost-minCost, maxCost, minCost)
	}
}

func TestSplitBinCountFollowsTargetTime(t *testing.T) {
	costs := map[string]float64{}
	var tests []core.TestRef
	for i := 0; i < 7; i++ {
		name := fmt.Sprintf("t%d", i)
		costs[name] = 10
		tests = append(tests, core.TestRef(name))
	}
	config := core.SplitConfig{
		TargetSuiteTime:  35 * time.Second,
		MaxSubSuites:     5,
		MaxTestsPerSuite: 10,
	}

	splitter := New(nil, newTestLogger(t))
	suite, err := splitter.Split(core.SplitParams{TaskName: "core", Tests: tests}, catalogOf(costs), config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// total cost 70s over a 35s budget wants 2 bins
	if suite.BinCount() != 2 {
		t.Errorf("Expected 2 sub-suites, got %d", suite.BinCount())
	}
}

func TestSplitFallbackRoundRobin(t *testing.T) {
	var tests []core.TestRef
	for i := 0; i < 12; i++ {
		tests = append(tests, core.TestRef(fmt.Sprintf("t%02d", i)))
	}
	config := core.SplitConfig{
		TargetSuiteTime:  time.Minute,
		MaxSubSuites:     10,
		MaxTestsPerSuite: 5,
	}

	splitter := New(nil, newTestLogger(t))
	suite, err := splitter.Split(core.SplitParams{TaskName: "core", Tests: tests}, nil, config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if suite.BinCount() != 3 {
		t.Fatalf("Expected 3 sub-suites, got %d", suite.BinCount())
	}
	for i, sub := range suite.SubSuites {
		if len(sub.Members) != 4 {
			t.Errorf("Expected sub-suite %d to hold 4 tests, got %d", i, len(sub.Members))
		}
		if sub.HasTimingData {
			t.Errorf("Expected no timing data on round robin sub-suite %d", i)
		}
	}
	// cyclic assignment in input order
	if suite.SubSuites[0].Members[0] != "t00" || suite.SubSuites[1].Members[0] != "t01" || suite.SubSuites[2].Members[0] != "t02" {
		t.Errorf("Expected cyclic assignment, got %v", suite.SubSuites)
	}
	allMembers(t, suite)
}

func TestSplitPartialDataTriggersFallback(t *testing.T) {
	// t3 has no samples, so the whole suite must use round robin
	costs := map[string]float64{"t1": 10, "t2": 20}
	tests := testRefs("t1", "t2", "t3")
	config := core.SplitConfig{MaxSubSuites: 3, MaxTestsPerSuite: 1}

	splitter := New(nil, newTestLogger(t))
	suite, err := splitter.Split(core.SplitParams{TaskName: "core", Tests: tests}, catalogOf(costs), config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for i, sub := range suite.SubSuites {
		if sub.HasTimingData {
			t.Errorf("Expected no timing data on sub-suite %d after partial catalog", i)
		}
		if sub.EstimatedCost != 0 {
			t.Errorf("Expected zero estimated cost on sub-suite %d, got %f", i, sub.EstimatedCost)
		}
	}
	allMembers(t, suite)
}

func TestSplitDeterminism(t *testing.T) {
	costs := map[string]float64{"a": 10, "b": 10, "c": 20, "d": 5, "e": 20}
	params := core.SplitParams{
		TaskName: "core",
		Tests:    testRefs("a", "b", "c", "d", "e"),
	}
	config := core.SplitConfig{
		TargetSuiteTime:  20 * time.Second,
		MaxSubSuites:     4,
		MaxTestsPerSuite: 3,
	}

	splitter := New(nil, newTestLogger(t))
	first, err := splitter.Split(params, catalogOf(costs), config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := splitter.Split(params, catalogOf(costs), config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical output for identical input:\nfirst: %+v\nsecond: %+v", first, second)
	}
}

func TestSplitOverflowRoutesToMisc(t *testing.T) {
	costs := map[string]float64{"a": 4, "b": 3, "c": 2, "d": 1}
	params := core.SplitParams{
		TaskName:   "core",
		CreateMisc: true,
		Tests:      testRefs("a", "b", "c", "d"),
	}
	config := core.SplitConfig{
		TargetSuiteTime:  time.Second,
		MaxSubSuites:     2,
		MaxTestsPerSuite: 1,
	}

	splitter := New(nil, newTestLogger(t))
	suite, err := splitter.Split(params, catalogOf(costs), config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if suite.BinCount() != 2 {
		t.Fatalf("Expected 2 sub-suites, got %d", suite.BinCount())
	}
	for i, sub := range suite.SubSuites {
		if len(sub.Members) != 1 {
			t.Errorf("Expected sub-suite %d to respect the cap, got %d members", i, len(sub.Members))
		}
	}
	if suite.Misc == nil || len(suite.Misc.Members) != 2 {
		t.Fatalf("Expected 2 overflow tests in misc, got %+v", suite.Misc)
	}
	if !suite.OverflowApplied {
		t.Errorf("Expected OverflowApplied to be set")
	}
	allMembers(t, suite)
}

func TestSplitOverflowAppendsToLastBinWithoutMisc(t *testing.T) {
	costs := map[string]float64{"a": 4, "b": 3, "c": 2, "d": 1}
	params := core.SplitParams{
		TaskName: "core",
		Tests:    testRefs("a", "b", "c", "d"),
	}
	config := core.SplitConfig{
		TargetSuiteTime:  time.Second,
		MaxSubSuites:     2,
		MaxTestsPerSuite: 1,
	}

	splitter := New(nil, newTestLogger(t))
	suite, err := splitter.Split(params, catalogOf(costs), config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if suite.Misc != nil {
		t.Fatalf("Expected no misc suite")
	}
	last := suite.SubSuites[suite.BinCount()-1]
	if len(last.Members) != 3 {
		t.Errorf("Expected overflow appended to the last bin, got %d members", len(last.Members))
	}
	if !suite.OverflowApplied {
		t.Errorf("Expected OverflowApplied to be set")
	}
	allMembers(t, suite)
}

func TestMeanCost(t *testing.T) {
	samples := []core.DurationSample{
		{DurationSec: 10},
		{DurationSec: 20},
		{DurationSec: 30},
	}
	if got := MeanCost(samples); got != 20 {
		t.Errorf("Expected mean cost 20, got %f", got)
	}
	if got := MeanCost(nil); got != 0 {
		t.Errorf("Expected zero cost for no samples, got %f", got)
	}
}
