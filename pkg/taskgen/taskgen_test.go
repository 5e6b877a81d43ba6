package taskgen

import (
	"strings"
	"testing"
	"time"

	"github.com/suitegen/suitegen/pkg/core"
	errs "github.com/suitegen/suitegen/pkg/errors"
	"github.com/suitegen/suitegen/pkg/lumber"
)

// stubEstimator returns a fixed estimate for sub-suites with timing data and
// an unspecified one otherwise.
type stubEstimator struct {
	exec time.Duration
	idle time.Duration
}

func (s *stubEstimator) Estimate(subSuite *core.SubSuite) core.TimeoutEstimate {
	if subSuite == nil || !subSuite.HasTimingData {
		return core.TimeoutEstimate{}
	}
	return core.TimeoutEstimate{
		ExecTimeout: core.Timeout(s.exec),
		IdleTimeout: core.Timeout(s.idle),
		IsSpecified: true,
	}
}

func newTestLogger(t *testing.T) lumber.Logger {
	logger, err := lumber.NewLogger(&lumber.LoggingConfig{}, false, lumber.InstanceZapLogger)
	if err != nil {
		t.Fatalf("could not create logger: %v", err)
	}
	return logger
}

func sampleSuite(withMisc bool) *core.GeneratedSuite {
	suite := &core.GeneratedSuite{
		TaskName:     "auth",
		SuiteName:    "auth",
		BuildVariant: "linux-64",
		TotalTests:   4,
		SubSuites: []*core.SubSuite{
			{Index: 0, Members: []core.TestRef{"a", "b"}, EstimatedCost: 30, MaxTestCost: 20, HasTimingData: true},
			{Index: 1, Members: []core.TestRef{"c", "d"}, EstimatedCost: 25, MaxTestCost: 15, HasTimingData: true},
		},
	}
	if withMisc {
		suite.Misc = &core.SubSuite{Index: -1}
	}
	return suite
}

func TestGenerateTasksOnePerSubSuite(t *testing.T) {
	estimator := &stubEstimator{exec: 10 * time.Minute, idle: 5 * time.Minute}
	gen := New(estimator, core.GenTaskOptions{}, newTestLogger(t))
	params := core.GenTaskParams{ResmokeArgs: "--storageEngine=wiredTiger", ConfigLocation: "loc"}

	tasks, err := gen.GenerateTasks(sampleSuite(true), params)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tasks))
	}

	wantNames := []string{"auth_0_2_linux-64", "auth_1_2_linux-64", "auth_misc_linux-64"}
	for i, task := range tasks {
		if task.Name != wantNames[i] {
			t.Errorf("Expected task name %s, got %s", wantNames[i], task.Name)
		}
	}
	if tasks[0].SuiteFile != "auth_0_2_linux-64.yml" {
		t.Errorf("Expected suite file auth_0_2_linux-64.yml, got %s", tasks[0].SuiteFile)
	}
	if tasks[2].SuiteFile != "auth_misc_linux-64.yml" {
		t.Errorf("Expected suite file auth_misc_linux-64.yml, got %s", tasks[2].SuiteFile)
	}
	if !tasks[0].Timeout.IsSpecified {
		t.Errorf("Expected specified timeout on a timed sub-suite")
	}
	// the misc suite carries no timing data, the platform default applies
	if tasks[2].Timeout.IsSpecified {
		t.Errorf("Expected unspecified timeout on the misc task")
	}
}

func TestGenerateTasksMiscCarriesNoMembers(t *testing.T) {
	gen := New(&stubEstimator{}, core.GenTaskOptions{}, newTestLogger(t))
	suite := sampleSuite(true)
	suite.Misc.Members = []core.TestRef{"e", "f"}

	tasks, err := gen.GenerateTasks(suite, core.GenTaskParams{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(tasks[0].Members) != 2 {
		t.Errorf("Expected primary task members, got %v", tasks[0].Members)
	}
	// the misc suite file selects by exclusion, the descriptor lists no members
	if len(tasks[2].Members) != 0 {
		t.Errorf("Expected no members on the misc task, got %v", tasks[2].Members)
	}
}

func TestGenerateTasksResmokeArgs(t *testing.T) {
	gen := New(&stubEstimator{}, core.GenTaskOptions{}, newTestLogger(t))
	params := core.GenTaskParams{
		ResmokeArgs:    "--storageEngine=wiredTiger",
		ConfigLocation: "variant/rev/generate_tasks/auth_gen-build.tgz",
		ResmokeJobsMax: 4,
	}

	tasks, err := gen.GenerateTasks(sampleSuite(false), params)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	args := argsByKey(t, tasks[0].ExtraArgs)

	resmoke := args["resmoke_args"]
	for _, want := range []string{"--suite=auth_0_2_linux-64.yml", "--originSuite=auth", "--storageEngine=wiredTiger"} {
		if !strings.Contains(resmoke, want) {
			t.Errorf("Expected resmoke args to contain %q, got %q", want, resmoke)
		}
	}
	if args["gen_task_config_location"] != params.ConfigLocation {
		t.Errorf("Expected config location %q, got %q", params.ConfigLocation, args["gen_task_config_location"])
	}
	if args["resmoke_jobs_max"] != "4" {
		t.Errorf("Expected resmoke_jobs_max 4, got %q", args["resmoke_jobs_max"])
	}
}

func TestGenerateTasksRepeatSuites(t *testing.T) {
	gen := New(&stubEstimator{}, core.GenTaskOptions{}, newTestLogger(t))

	tasks, err := gen.GenerateTasks(sampleSuite(false), core.GenTaskParams{RepeatSuites: 2})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	resmoke := argsByKey(t, tasks[0].ExtraArgs)["resmoke_args"]
	if !strings.Contains(resmoke, "--repeatSuites=2") {
		t.Errorf("Expected repeat flag in %q", resmoke)
	}

	// an explicit repeat flag in the incoming args wins
	tasks, err = gen.GenerateTasks(sampleSuite(false), core.GenTaskParams{
		ResmokeArgs:  "--repeatSuites=5",
		RepeatSuites: 2,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	resmoke = argsByKey(t, tasks[0].ExtraArgs)["resmoke_args"]
	if strings.Contains(resmoke, "--repeatSuites=2") {
		t.Errorf("Expected no injected repeat flag in %q", resmoke)
	}
}

func TestGenerateTasksOptions(t *testing.T) {
	estimator := &stubEstimator{exec: 10 * time.Minute, idle: 5 * time.Minute}
	options := core.GenTaskOptions{NamePrefix: "burn_in", UseDefaultTimeouts: true}
	gen := New(estimator, options, newTestLogger(t))

	tasks, err := gen.GenerateTasks(sampleSuite(false), core.GenTaskParams{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if tasks[0].Name != "burn_in_auth_0_2_linux-64" {
		t.Errorf("Expected prefixed task name, got %s", tasks[0].Name)
	}
	if tasks[0].Timeout.IsSpecified {
		t.Errorf("Expected default timeouts to suppress the estimate")
	}
}

func TestGenerateTasksPatchTimeoutBound(t *testing.T) {
	estimator := &stubEstimator{exec: 49 * time.Hour, idle: 5 * time.Minute}

	// mainline builds accept any computed timeout
	gen := New(estimator, core.GenTaskOptions{}, newTestLogger(t))
	if _, err := gen.GenerateTasks(sampleSuite(false), core.GenTaskParams{}); err != nil {
		t.Fatalf("Expected no error outside patch builds, got %v", err)
	}

	gen = New(estimator, core.GenTaskOptions{IsPatch: true}, newTestLogger(t))
	if _, err := gen.GenerateTasks(sampleSuite(false), core.GenTaskParams{}); err != errs.ErrExcessiveTimeout {
		t.Errorf("Expected ErrExcessiveTimeout in a patch build, got %v", err)
	}

	// sane timeouts pass in patch builds too
	gen = New(&stubEstimator{exec: 10 * time.Minute, idle: 5 * time.Minute},
		core.GenTaskOptions{IsPatch: true}, newTestLogger(t))
	if _, err := gen.GenerateTasks(sampleSuite(false), core.GenTaskParams{}); err != nil {
		t.Errorf("Expected no error for a bounded timeout, got %v", err)
	}
}

func TestDisplayGroup(t *testing.T) {
	tasks := []*core.GeneratedTask{{Name: "auth_0_2"}, {Name: "auth_1_2"}, {Name: "auth_misc"}}

	display := DisplayGroup(tasks)
	if display.Name != "generator_tasks" {
		t.Errorf("Expected display task generator_tasks, got %s", display.Name)
	}
	if len(display.ExecutionTasks) != 3 || display.ExecutionTasks[2] != "auth_misc" {
		t.Errorf("Expected all task names in the display group, got %v", display.ExecutionTasks)
	}
}

func argsByKey(t *testing.T, args []core.TaskArg) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, arg := range args {
		out[arg.Key] = arg.Value
	}
	return out
}
