package taskgen

import (
	"fmt"
	"strings"

	"github.com/suitegen/suitegen/pkg/constants"
	"github.com/suitegen/suitegen/pkg/core"
	errs "github.com/suitegen/suitegen/pkg/errors"
	"github.com/suitegen/suitegen/pkg/lumber"
)

type multiversionGenerator struct {
	logger    lumber.Logger
	estimator core.TimeoutEstimator
	options   core.GenTaskOptions
}

// NewMultiversion returns a MultiversionGenerator that fans a partitioned
// suite out across version mix configurations.
func NewMultiversion(estimator core.TimeoutEstimator, options core.GenTaskOptions,
	logger lumber.Logger) core.MultiversionGenerator {
	return &multiversionGenerator{
		logger:    logger,
		estimator: estimator,
		options:   options,
	}
}

// GenerateTasks produces one task per (sub-suite, version mix) pair, misc
// included. The output size is always (bins + misc) * mixes; duplicate mixes
// in the input are the caller's responsibility. Timeouts are estimated once
// per sub-suite and shared across its version mixes, since the mix does not
// change expected per-test cost in this model.
func (m *multiversionGenerator) GenerateTasks(suite *core.GeneratedSuite,
	mixes []core.VersionMixConfig, params core.MultiversionParams) ([]*core.GeneratedTask, error) {
	if len(mixes) == 0 {
		return nil, errs.ErrNoVersionConfigs
	}
	estimates := make(map[int]core.TimeoutEstimate, suite.BinCount())
	for _, sub := range suite.SubSuites {
		estimates[sub.Index] = m.estimator.Estimate(sub)
	}

	inner := &taskGenerator{logger: m.logger, estimator: &fixedEstimates{estimates}, options: m.options}
	tasks := make([]*core.GeneratedTask, 0, (suite.BinCount()+1)*len(mixes))
	for _, mix := range mixes {
		baseName := fmt.Sprintf("%s_%s", suite.TaskName, mix.Label)
		mixParams := params.GenTaskParams
		mixParams.ResmokeArgs = m.mixResmokeArgs(params, mix)
		for _, sub := range suite.SubSuites {
			task, err := inner.createSubTask(baseName, suite, sub, mixParams)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
		if suite.Misc != nil {
			task, err := inner.createSubTask(baseName, suite, nil, mixParams)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
		}
	}
	m.logger.Infof("generated %d multiversion tasks for task %s across %d version mixes",
		len(tasks), suite.TaskName, len(mixes))
	return tasks, nil
}

// mixResmokeArgs appends the version mix flags, the exclusion tag filter and
// the fixture topology flags to the caller's resmoke args.
func (m *multiversionGenerator) mixResmokeArgs(params core.MultiversionParams,
	mix core.VersionMixConfig) string {
	excludeTags := strings.Join(constants.BaseExcludeTags, ",")
	if params.ParentTaskName != "" {
		excludeTags = fmt.Sprintf("%s,%s_%s", excludeTags, params.ParentTaskName, constants.BackportRequiredTag)
	}
	tagFile := params.TagFilePath
	if tagFile == "" {
		tagFile = constants.ExcludeTagsFile
	}
	return strings.TrimSpace(fmt.Sprintf("%s --mixedBinVersions=%s --excludeWithAnyTags=%s --tagFile=%s %s",
		params.ResmokeArgs, mix.Label, excludeTags, tagFile, TopologyArgs(mix.Topology)))
}

// TopologyArgs returns the fixture flags implied by a version mix topology.
func TopologyArgs(topology core.ClusterTopology) string {
	if topology == core.ShardedTopology {
		return constants.ShardedExtraArgs
	}
	return constants.ReplSetExtraArgs
}

// VersionMixes returns the version mix configurations for the given topology.
func VersionMixes(sharded bool) []core.VersionMixConfig {
	labels := constants.ReplVersionMixes
	topology := core.ReplSetTopology
	if sharded {
		labels = constants.ShardedVersionMixes
		topology = core.ShardedTopology
	}
	mixes := make([]core.VersionMixConfig, 0, len(labels))
	for _, label := range labels {
		mixes = append(mixes, core.VersionMixConfig{Label: label, Topology: topology})
	}
	return mixes
}

// fixedEstimates serves precomputed sub-suite estimates so every version mix
// of a sub-suite shares one timeout.
type fixedEstimates struct {
	byIndex map[int]core.TimeoutEstimate
}

func (f *fixedEstimates) Estimate(subSuite *core.SubSuite) core.TimeoutEstimate {
	if subSuite == nil {
		return core.TimeoutEstimate{}
	}
	return f.byIndex[subSuite.Index]
}
