package emitter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/suitegen/suitegen/pkg/core"
	"github.com/suitegen/suitegen/pkg/lumber"
	"github.com/suitegen/suitegen/pkg/taskname"
	"golang.org/x/sync/errgroup"
	yaml "gopkg.in/yaml.v2"
)

type emitter struct {
	logger    lumber.Logger
	configDir string
}

// New returns an Emitter writing generated suite and task documents under
// configDir.
func New(configDir string, logger lumber.Logger) core.Emitter {
	return &emitter{
		logger:    logger,
		configDir: configDir,
	}
}

// suiteDoc is the resmoke sub-suite document. The misc suite selects by
// exclusion, so tests added to the origin suite after generation still run.
type suiteDoc struct {
	OriginSuite string      `yaml:"origin_suite"`
	Selector    selectorDoc `yaml:"selector"`
}

type selectorDoc struct {
	Roots        []string `yaml:"roots,omitempty"`
	ExcludeFiles []string `yaml:"exclude_files,omitempty"`
}

// taskDoc is one generated task entry in the config document.
type taskDoc struct {
	Name            string        `yaml:"name"`
	SuiteFile       string        `yaml:"suite_file"`
	ExecTimeoutSecs int           `yaml:"exec_timeout_secs,omitempty"`
	TimeoutSecs     int           `yaml:"timeout_secs,omitempty"`
	Vars            yaml.MapSlice `yaml:"vars,omitempty"`
}

type configDoc struct {
	Tasks        []taskDoc           `yaml:"tasks"`
	DisplayTasks []*core.DisplayTask `yaml:"display_tasks,omitempty"`
}

// Write renders one suite file per sub-suite (misc included) and a single
// task config document. Suite files are written concurrently; all data is
// immutable by the time it reaches the emitter.
func (e *emitter) Write(ctx context.Context, suite *core.GeneratedSuite,
	tasks []*core.GeneratedTask, display *core.DisplayTask) error {
	if err := os.MkdirAll(e.configDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating config dir %s", e.configDir)
	}

	g, _ := errgroup.WithContext(ctx)
	for _, sub := range suite.SubSuites {
		sub := sub
		g.Go(func() error {
			name := taskname.SubSuiteName(suite.SuiteName, sub.Index, suite.BinCount())
			return e.writeSuiteFile(taskname.SuiteFileName(name, suite.BuildVariant), suiteDoc{
				OriginSuite: suite.SuiteName,
				Selector:    selectorDoc{Roots: testNames(sub.Members)},
			})
		})
	}
	if suite.Misc != nil {
		g.Go(func() error {
			name := taskname.MiscSuiteName(suite.SuiteName)
			return e.writeSuiteFile(taskname.SuiteFileName(name, suite.BuildVariant), suiteDoc{
				OriginSuite: suite.SuiteName,
				Selector:    selectorDoc{ExcludeFiles: e.assignedTests(suite)},
			})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return e.writeConfigDoc(suite, tasks, display)
}

// assignedTests lists every test placed in a primary bin. The misc suite
// excludes these, so it picks up overflow members and any test that joined
// the origin suite after the historic split.
func (e *emitter) assignedTests(suite *core.GeneratedSuite) []string {
	var assigned []string
	for _, sub := range suite.SubSuites {
		assigned = append(assigned, testNames(sub.Members)...)
	}
	return assigned
}

func (e *emitter) writeSuiteFile(fileName string, doc suiteDoc) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrapf(err, "marshaling suite file %s", fileName)
	}
	target := filepath.Join(e.configDir, fileName)
	if err := os.WriteFile(target, raw, 0o644); err != nil {
		return errors.Wrapf(err, "writing suite file %s", target)
	}
	e.logger.Debugf("wrote suite file %s with %d roots", target, len(doc.Selector.Roots))
	return nil
}

func (e *emitter) writeConfigDoc(suite *core.GeneratedSuite,
	tasks []*core.GeneratedTask, display *core.DisplayTask) error {
	doc := configDoc{Tasks: make([]taskDoc, 0, len(tasks))}
	for _, task := range tasks {
		entry := taskDoc{
			Name:      task.Name,
			SuiteFile: task.SuiteFile,
		}
		if task.Timeout.IsSpecified {
			entry.ExecTimeoutSecs = task.Timeout.ExecTimeout.Seconds()
			entry.TimeoutSecs = task.Timeout.IdleTimeout.Seconds()
		}
		for _, arg := range task.ExtraArgs {
			entry.Vars = append(entry.Vars, yaml.MapItem{Key: arg.Key, Value: arg.Value})
		}
		doc.Tasks = append(doc.Tasks, entry)
	}
	if display != nil {
		doc.DisplayTasks = append(doc.DisplayTasks, display)
	}

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "marshaling task config")
	}
	target := filepath.Join(e.configDir, fmt.Sprintf("%s.yml", suite.TaskName))
	if err := os.WriteFile(target, raw, 0o644); err != nil {
		return errors.Wrapf(err, "writing task config %s", target)
	}
	e.logger.Infof("wrote %d generated tasks to %s", len(doc.Tasks), target)
	return nil
}

func testNames(tests []core.TestRef) []string {
	names := make([]string, 0, len(tests))
	for _, test := range tests {
		names = append(names, string(test))
	}
	return names
}
