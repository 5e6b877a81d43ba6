package taskgen

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/suitegen/suitegen/pkg/constants"
	"github.com/suitegen/suitegen/pkg/core"
	errs "github.com/suitegen/suitegen/pkg/errors"
	"github.com/suitegen/suitegen/pkg/lumber"
	"github.com/suitegen/suitegen/pkg/taskname"
)

type taskGenerator struct {
	logger    lumber.Logger
	estimator core.TimeoutEstimator
	options   core.GenTaskOptions
}

// New returns a TaskGenerator that emits one task per sub-suite.
func New(estimator core.TimeoutEstimator, options core.GenTaskOptions,
	logger lumber.Logger) core.TaskGenerator {
	return &taskGenerator{
		logger:    logger,
		estimator: estimator,
		options:   options,
	}
}

// GenerateTasks builds the task descriptors for every sub-suite of the
// generated suite, including the misc suite when present.
func (t *taskGenerator) GenerateTasks(suite *core.GeneratedSuite,
	params core.GenTaskParams) ([]*core.GeneratedTask, error) {
	tasks := make([]*core.GeneratedTask, 0, suite.BinCount()+1)
	for _, sub := range suite.SubSuites {
		task, err := t.createSubTask(suite.TaskName, suite, sub, params)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if suite.Misc != nil {
		task, err := t.createSubTask(suite.TaskName, suite, nil, params)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// createSubTask builds one task descriptor. A nil sub generates the misc task,
// which carries no member list; its suite file selects by exclusion.
func (t *taskGenerator) createSubTask(baseName string, suite *core.GeneratedSuite,
	sub *core.SubSuite, params core.GenTaskParams) (*core.GeneratedTask, error) {
	var subSuiteName, subTaskName string
	var members []core.TestRef
	var estimate core.TimeoutEstimate
	if sub == nil {
		subSuiteName = taskname.MiscSuiteName(suite.SuiteName)
		subTaskName = taskname.MiscTaskName(baseName, suite.BuildVariant)
		estimate = t.estimator.Estimate(suite.Misc)
	} else {
		subSuiteName = taskname.SubSuiteName(suite.SuiteName, sub.Index, suite.BinCount())
		subTaskName = taskname.SubTaskName(baseName, sub.Index, suite.BinCount(), suite.BuildVariant)
		estimate = t.estimator.Estimate(sub)
		members = sub.Members
	}
	if t.options.NamePrefix != "" {
		subTaskName = fmt.Sprintf("%s_%s", t.options.NamePrefix, subTaskName)
	}
	if t.options.UseDefaultTimeouts {
		estimate = core.TimeoutEstimate{}
	}
	// patch builds refuse timeouts beyond the expected bound
	if t.options.IsPatch && estimate.IsSpecified &&
		time.Duration(estimate.ExecTimeout) > constants.MaxExpectedTimeout {
		t.logger.Errorf("task %s: estimated exec timeout %s exceeds the %s patch build bound",
			subTaskName, time.Duration(estimate.ExecTimeout), constants.MaxExpectedTimeout)
		return nil, errs.ErrExcessiveTimeout
	}

	suiteFile := taskname.SuiteFileName(subSuiteName, suite.BuildVariant)
	t.logger.Debugf("generating task %s for suite file %s", subTaskName, suiteFile)
	return &core.GeneratedTask{
		Name:      subTaskName,
		SuiteFile: suiteFile,
		Members:   members,
		Timeout:   estimate,
		ExtraArgs: t.taskArgs(resmokeArgs(params, suiteFile, suite.SuiteName), params),
	}, nil
}

// taskArgs assembles the ordered key/value arguments of a generated task.
func (t *taskGenerator) taskArgs(args string, params core.GenTaskParams) []core.TaskArg {
	out := []core.TaskArg{
		{Key: "resmoke_args", Value: args},
		{Key: "gen_task_config_location", Value: params.ConfigLocation},
	}
	if params.ResmokeJobsMax > 0 {
		out = append(out, core.TaskArg{Key: "resmoke_jobs_max", Value: strconv.Itoa(params.ResmokeJobsMax)})
	}
	return out
}

// resmokeArgs builds the resmoke invocation for one generated sub-suite.
func resmokeArgs(params core.GenTaskParams, suiteFile, originSuite string) string {
	args := fmt.Sprintf("--suite=%s --originSuite=%s %s", suiteFile, originSuite, params.ResmokeArgs)
	if params.RepeatSuites > 0 && !containsAny(args, "repeatSuites", "repeat") {
		args = fmt.Sprintf("%s --repeatSuites=%d", args, params.RepeatSuites)
	}
	return strings.TrimSpace(args)
}

func containsAny(s string, args ...string) bool {
	for _, arg := range args {
		if strings.Contains(s, arg) {
			return true
		}
	}
	return false
}

// DisplayGroup returns the parent display task grouping the generated tasks.
func DisplayGroup(tasks []*core.GeneratedTask) *core.DisplayTask {
	names := make([]string, 0, len(tasks))
	for _, task := range tasks {
		names = append(names, task.Name)
	}
	return &core.DisplayTask{
		Name:           constants.GenParentTask,
		ExecutionTasks: names,
	}
}
