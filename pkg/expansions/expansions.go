package expansions

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/suitegen/suitegen/pkg/constants"
	"github.com/suitegen/suitegen/pkg/core"
	errs "github.com/suitegen/suitegen/pkg/errors"
	"github.com/suitegen/suitegen/pkg/taskname"
	yaml "gopkg.in/yaml.v2"
)

// Expansions are the generation parameters the CI system writes for a
// generating task.
type Expansions struct {
	BuildID      string `yaml:"build_id"`
	BuildVariant string `yaml:"build_variant"`
	Project      string `yaml:"project"`
	Revision     string `yaml:"revision"`
	TaskID       string `yaml:"task_id"`
	TaskName     string `yaml:"task_name"`
	IsPatch      bool   `yaml:"is_patch"`

	Suite               string `yaml:"suite"`
	ResmokeArgs         string `yaml:"resmoke_args"`
	ResmokeJobsMax      int    `yaml:"resmoke_jobs_max"`
	ResmokeRepeatSuites int    `yaml:"resmoke_repeat_suites"`

	TargetResmokeTime int  `yaml:"target_resmoke_time"`
	MaxSubSuites      int  `yaml:"max_sub_suites"`
	MaxTestsPerSuite  int  `yaml:"max_tests_per_suite"`
	CreateMiscSuite   bool `yaml:"create_misc_suite"`

	RequireMultiversion bool `yaml:"require_multiversion"`
	IsSharded           bool `yaml:"is_sharded"`
	UseDefaultTimeouts  bool `yaml:"use_default_timeouts"`
}

// Defaults seed the split settings the expansions file may omit, so deployed
// configuration still applies when the CI system leaves them out. Zero values
// fall back to the compiled-in defaults.
type Defaults struct {
	TargetSuiteTime  time.Duration
	MaxSubSuites     int
	MaxTestsPerSuite int
}

func (d Defaults) withFallbacks() Defaults {
	if d.TargetSuiteTime <= 0 {
		d.TargetSuiteTime = constants.DefaultTargetSuiteTime
	}
	if d.MaxSubSuites <= 0 {
		d.MaxSubSuites = constants.DefaultMaxSubSuites
	}
	if d.MaxTestsPerSuite <= 0 {
		d.MaxTestsPerSuite = constants.DefaultMaxTestsPerSuite
	}
	return d
}

// FromFile reads the expansions written by the CI system.
func FromFile(path string, defaults Defaults) (*Expansions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading expansions file %s", path)
	}
	defaults = defaults.withFallbacks()
	e := &Expansions{
		TargetResmokeTime:   int(defaults.TargetSuiteTime / time.Minute),
		MaxSubSuites:        defaults.MaxSubSuites,
		MaxTestsPerSuite:    defaults.MaxTestsPerSuite,
		CreateMiscSuite:     true,
		ResmokeRepeatSuites: 1,
	}
	if err := yaml.Unmarshal(raw, e); err != nil {
		return nil, errors.Wrapf(err, "parsing expansions file %s", path)
	}
	if e.TaskName == "" {
		return nil, errs.ErrEmptyTaskName
	}
	if e.BuildVariant == "" {
		return nil, errs.ErrEmptyBuildVariant
	}
	return e, nil
}

// Task returns the name of the task being generated, without the generator
// suffix.
func (e *Expansions) Task() string {
	return taskname.RemoveGenSuffix(e.TaskName)
}

// OriginSuite returns the resmoke suite the generated sub-suites derive from.
func (e *Expansions) OriginSuite() string {
	if e.Suite != "" {
		return e.Suite
	}
	return e.Task()
}

// SplitConfig builds the partitioning configuration over the given lookback
// window.
func (e *Expansions) SplitConfig(start, end time.Time) core.SplitConfig {
	return core.SplitConfig{
		TargetSuiteTime:  time.Duration(e.TargetResmokeTime) * time.Minute,
		MaxSubSuites:     e.MaxSubSuites,
		MaxTestsPerSuite: e.MaxTestsPerSuite,
		LookbackStart:    start,
		LookbackEnd:      end,
	}
}

// SplitParams builds the per-invocation partitioning parameters.
func (e *Expansions) SplitParams(tests []core.TestRef) core.SplitParams {
	return core.SplitParams{
		TaskName:     e.Task(),
		SuiteName:    e.OriginSuite(),
		BuildVariant: e.BuildVariant,
		CreateMisc:   e.CreateMiscSuite,
		Tests:        tests,
	}
}

// GenParams builds the task generation parameters.
func (e *Expansions) GenParams() core.GenTaskParams {
	return core.GenTaskParams{
		ResmokeArgs:    e.ResmokeArgs,
		RepeatSuites:   e.ResmokeRepeatSuites,
		ResmokeJobsMax: e.ResmokeJobsMax,
		ConfigLocation: e.ConfigLocation(),
	}
}

// MultiversionParams builds the mixed version generation parameters.
func (e *Expansions) MultiversionParams() core.MultiversionParams {
	return core.MultiversionParams{
		GenTaskParams:  e.GenParams(),
		ParentTaskName: e.Task(),
		OriginSuite:    e.OriginSuite(),
		TagFilePath:    constants.ExcludeTagsFile,
	}
}

// GenOptions builds the global task generation options.
func (e *Expansions) GenOptions() core.GenTaskOptions {
	return core.GenTaskOptions{
		IsPatch:            e.IsPatch,
		UseDefaultTimeouts: e.UseDefaultTimeouts,
	}
}

// ConfigLocation is the remote path the generated config archive is uploaded to.
func (e *Expansions) ConfigLocation() string {
	return fmt.Sprintf("%s/%s/generate_tasks/%s%s-%s.tgz",
		e.BuildVariant, e.Revision, e.Task(), constants.GenSuffix, e.BuildID)
}

// ReadTestList reads test identifiers from a file, one per line. Blank lines
// and #-comments are skipped.
func ReadTestList(path string) ([]core.TestRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading test list %s", path)
	}
	defer f.Close()

	var tests []core.TestRef
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tests = append(tests, core.TestRef(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "scanning test list %s", path)
	}
	if len(tests) == 0 {
		return nil, errs.ErrEmptyTestList
	}
	return tests, nil
}
