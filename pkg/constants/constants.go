package constants

import "time"

const (
	// BinaryVersion is the version of the suitegen binary.
	BinaryVersion = "0.4.0"
	// LookbackDuration is how far back historic test stats are fetched.
	LookbackDuration = 14 * 24 * time.Hour
	// DefaultTargetSuiteTime is the wall-clock budget each generated sub-suite should fit in.
	DefaultTargetSuiteTime = 60 * time.Minute
	// DefaultMaxSubSuites is the maximum number of sub-suites generated for a single task.
	DefaultMaxSubSuites = 5
	// DefaultMaxTestsPerSuite is the maximum number of tests packed into a single sub-suite.
	DefaultMaxTestsPerSuite = 100
	// DefaultStatsAttempts is the number of attempts made while fetching test stats.
	DefaultStatsAttempts = 3
	// DefaultStatsRetryDelay is the base delay between test stats fetch attempts.
	DefaultStatsRetryDelay = 2 * time.Second
	// DefaultRequestTimeout is the timeout for a single CI provider API request.
	DefaultRequestTimeout = 30 * time.Second
	// GenSuffix is appended by the CI system to the name of generating tasks.
	GenSuffix = "_gen"
	// MiscSuffix marks the catch-all sub-suite holding tests without a primary bin.
	MiscSuffix = "_misc"
	// GenParentTask is the display task grouping all generated sub-tasks.
	GenParentTask = "generator_tasks"
	// DefaultConfigDir is where generated suite and task documents are written.
	DefaultConfigDir = "generated_resmoke_config"
	// ExcludeTagsFile is the tag file consulted by multiversion tasks for exclusions.
	ExcludeTagsFile = "multiversion_exclude_tags.yml"
	// RequiresFCVTag excludes tests that require the latest feature compatibility version.
	RequiresFCVTag = "requires_fcv_51"
	// MultiversionIncompatibleTag excludes tests that cannot run in mixed version clusters.
	MultiversionIncompatibleTag = "multiversion_incompatible"
	// BackportRequiredTag excludes tests awaiting a backport to the last LTS branch.
	BackportRequiredTag = "backport_required_multiversion"
	// DefaultTimeoutScalingFactor inflates the summed historic runtime to cover machine variance.
	DefaultTimeoutScalingFactor = 3.0
	// DefaultExecTimeoutOverhead covers fixture startup and teardown.
	DefaultExecTimeoutOverhead = 5 * time.Minute
	// DefaultIdleTimeoutOverhead pads the longest single test when bounding silent periods.
	DefaultIdleTimeoutOverhead = 1 * time.Minute
	// MinTaskTimeout is the floor for any generated timeout.
	MinTaskTimeout = 5 * time.Minute
	// MaxExpectedTimeout bounds generated timeouts in patch builds; anything
	// larger points at a misconfigured suite rather than legitimate load.
	MaxExpectedTimeout = 48 * time.Hour
	// ReplSetExtraArgs configures the replica set fixture for multiversion runs.
	ReplSetExtraArgs = "--numReplSetNodes=3 --linearChain=on"
	// ShardedExtraArgs configures the sharded cluster fixture for multiversion runs.
	ShardedExtraArgs = "--numShards=2 --numReplSetNodes=2"
)

// ReplVersionMixes are the binary version assignments tested on replica sets.
var ReplVersionMixes = []string{"new-old-new", "new-new-old", "old-new-new"}

// ShardedVersionMixes are the binary version assignments tested on sharded clusters.
var ShardedVersionMixes = []string{"new-old-old-new"}

// BaseExcludeTags is the fixed tag set excluded from every multiversion suite.
var BaseExcludeTags = []string{RequiresFCVTag, MultiversionIncompatibleTag, BackportRequiredTag}
