package cmd

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/suitegen/suitegen/config"
	"github.com/suitegen/suitegen/pkg/constants"
	"github.com/suitegen/suitegen/pkg/core"
	"github.com/suitegen/suitegen/pkg/emitter"
	"github.com/suitegen/suitegen/pkg/expansions"
	"github.com/suitegen/suitegen/pkg/lumber"
	"github.com/suitegen/suitegen/pkg/requestutils"
	"github.com/suitegen/suitegen/pkg/stats"
	"github.com/suitegen/suitegen/pkg/suitesplit"
	"github.com/suitegen/suitegen/pkg/taskgen"
	"github.com/suitegen/suitegen/pkg/timeout"
	"github.com/suitegen/suitegen/pkg/utils"
)

// RootCommand will setup and return the root command
func RootCommand() *cobra.Command {
	rootCmd := cobra.Command{
		Use:     "suitegen",
		Long:    `suitegen partitions a test suite into sub-suites sized for a wall-clock budget and generates the CI tasks to run them, optionally fanned out across mixed binary version configurations.`,
		Version: constants.BinaryVersion,
		RunE:    run,
	}

	// define flags used for this command
	AttachCLIFlags(&rootCmd)

	return &rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		fmt.Printf("Failed to load config: %v", err)
		return err
	}
	applyFlagOverrides(cmd, cfg)

	// patch logconfig file location with root level log file location
	if cfg.LogFile != "" {
		cfg.LogConfig.FileLocation = filepath.Join(cfg.LogFile, "sg.log")
		cfg.LogConfig.EnableFile = true
	}
	logger, err := lumber.NewLogger(&cfg.LogConfig, cfg.Verbose, lumber.InstanceZapLogger)
	if err != nil {
		log.Printf("could not instantiate logger %s", err.Error())
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runID := utils.GenerateUUID()
	logger.Debugf("starting suite generation run %s", runID)

	// deployed split settings apply when the expansions file omits them
	exp, err := expansions.FromFile(cfg.ExpansionsFile, expansions.Defaults{
		TargetSuiteTime:  cfg.Split.TargetSuiteTime,
		MaxSubSuites:     cfg.Split.MaxSubSuites,
		MaxTestsPerSuite: cfg.Split.MaxTestsPerSuite,
	})
	if err != nil {
		logger.Errorf("could not read expansions file %s, error: %v", cfg.ExpansionsFile, err)
		return err
	}
	tests, err := expansions.ReadTestList(cfg.TestListFile)
	if err != nil {
		logger.Errorf("could not read test list %s, error: %v", cfg.TestListFile, err)
		return err
	}

	end := time.Now().UTC().Truncate(time.Second)
	start := end.Add(-cfg.Split.LookbackDuration)

	project := exp.Project
	if project == "" {
		project = cfg.Evergreen.Project
	}

	requests := requestutils.New(logger)
	statsProvider := stats.New(stats.Options{
		BaseURL:  cfg.Evergreen.BaseURL,
		APIToken: cfg.Evergreen.APIToken,
	}, requests, logger)

	// stats failure is a degraded mode, not an error: the splitter falls back
	// to round robin when the catalog is missing tests
	catalog, err := statsProvider.FetchCatalog(ctx, project, exp.Task(), exp.BuildVariant, start, end)
	if err != nil {
		logger.Warnf("proceeding without historic durations for task %s: %v", exp.Task(), err)
		catalog = nil
	}

	splitter := suitesplit.New(nil, logger)
	suite, err := splitter.Split(exp.SplitParams(tests), catalog, exp.SplitConfig(start, end))
	if err != nil {
		logger.Errorf("could not partition suite %s, error: %v", exp.OriginSuite(), err)
		return err
	}
	logger.Infof("partitioned %d tests of suite %s into %d sub-suites (misc: %t, overflow: %t)",
		suite.TotalTests, suite.SuiteName, suite.BinCount(), suite.Misc != nil, suite.OverflowApplied)

	estimator := timeout.New(timeout.Config{
		ScalingFactor: cfg.Timeout.ScalingFactor,
		ExecOverhead:  cfg.Timeout.ExecOverhead,
		IdleOverhead:  cfg.Timeout.IdleOverhead,
		MinTimeout:    cfg.Timeout.MinTimeout,
		MaxTimeout:    cfg.Timeout.MaxTimeout,
	}, logger)
	genOptions := exp.GenOptions()

	var tasks []*core.GeneratedTask
	if cfg.Multiversion || exp.RequireMultiversion {
		multiversionGen := taskgen.NewMultiversion(estimator, genOptions, logger)
		mixes := taskgen.VersionMixes(cfg.Sharded || exp.IsSharded)
		tasks, err = multiversionGen.GenerateTasks(suite, mixes, exp.MultiversionParams())
	} else {
		tasks, err = taskgen.New(estimator, genOptions, logger).GenerateTasks(suite, exp.GenParams())
	}
	if err != nil {
		logger.Errorf("could not generate tasks for %s, error: %v", exp.Task(), err)
		return err
	}

	configEmitter := emitter.New(cfg.OutputDir, logger)
	if err := configEmitter.Write(ctx, suite, tasks, taskgen.DisplayGroup(tasks)); err != nil {
		logger.Errorf("could not write generated config for %s, error: %v", exp.Task(), err)
		return err
	}
	logger.Infof("run %s complete: %d tasks generated for task %s on variant %s",
		runID, len(tasks), exp.Task(), exp.BuildVariant)
	return nil
}
