package config

import (
	"time"

	"github.com/suitegen/suitegen/pkg/lumber"
)

type (
	// ConfigWrapper is a wrapper for the config
	ConfigWrapper struct {
		Config `json:"data"`
	}

	// Config the application's configuration
	Config struct {
		LogFile   string
		LogConfig lumber.LoggingConfig
		Env       string
		Verbose   bool

		Evergreen EvergreenConfig
		Split     SplitConfig
		Timeout   TimeoutConfig

		// OutputDir is where generated suite and task documents are written.
		OutputDir string
		// ExpansionsFile is the generation parameters file written by the CI system.
		ExpansionsFile string
		// TestListFile holds the suite's test identifiers, one per line.
		TestListFile string
		// Multiversion enables fan-out across version mix configurations.
		Multiversion bool
		// Sharded selects the sharded cluster version mixes over the replica set ones.
		Sharded bool
	}

	// EvergreenConfig configures the CI provider's REST API.
	EvergreenConfig struct {
		// BaseURL of the REST API, e.g. https://evergreen.example.com/api/rest/v2
		BaseURL string
		// APIToken for authenticated endpoints
		APIToken string
		// Project the generating task runs in
		Project string
	}

	// SplitConfig provides the suite partitioning defaults.
	SplitConfig struct {
		TargetSuiteTime  time.Duration
		MaxSubSuites     int
		MaxTestsPerSuite int
		LookbackDuration time.Duration
	}

	// TimeoutConfig tunes the timeout estimator.
	TimeoutConfig struct {
		ScalingFactor float64
		ExecOverhead  time.Duration
		IdleOverhead  time.Duration
		MinTimeout    time.Duration
		MaxTimeout    time.Duration
	}
)
