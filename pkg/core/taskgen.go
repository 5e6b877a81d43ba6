package core

import "context"

// ClusterTopology is the fixture shape a suite runs against.
type ClusterTopology string

// supported cluster topologies for multiversion testing
const (
	ReplSetTopology ClusterTopology = "replica_set"
	ShardedTopology ClusterTopology = "sharded_cluster"
)

// VersionMixConfig is one labeled combination of old/new binary versions
// assigned to cluster nodes, e.g. "new-old-new" on a replica set.
type VersionMixConfig struct {
	Label    string
	Topology ClusterTopology
}

// TaskArg is one key/value argument attached to a generated task.
type TaskArg struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// GeneratedTask is the final output unit handed to the CI config serializer.
// Immutable once produced.
type GeneratedTask struct {
	Name      string          `yaml:"name"`
	SuiteFile string          `yaml:"suite_file"`
	Members   []TestRef       `yaml:"members,omitempty"`
	Timeout   TimeoutEstimate `yaml:"-"`
	ExtraArgs []TaskArg       `yaml:"extra_args,omitempty"`
}

// DisplayTask groups generated sub-tasks under one parent in the CI UI.
type DisplayTask struct {
	Name           string   `yaml:"name"`
	ExecutionTasks []string `yaml:"execution_tasks"`
}

// GenTaskOptions are global options for how tasks are generated.
type GenTaskOptions struct {
	// IsPatch marks a patch build; generated timeouts are sanity-bounded there.
	IsPatch            bool
	NamePrefix         string
	UseDefaultTimeouts bool
}

// GenTaskParams describe how the tasks of one generated suite are built.
type GenTaskParams struct {
	ResmokeArgs    string
	RepeatSuites   int
	ResmokeJobsMax int
	ConfigLocation string
}

// MultiversionParams extend GenTaskParams for mixed version generation.
type MultiversionParams struct {
	GenTaskParams
	ParentTaskName string
	OriginSuite    string
	TagFilePath    string
}

// TaskGenerator produces one task per sub-suite of a generated suite.
type TaskGenerator interface {
	GenerateTasks(suite *GeneratedSuite, params GenTaskParams) ([]*GeneratedTask, error)
}

// MultiversionGenerator fans a generated suite out across version mixes,
// producing one task per (sub-suite, version mix) pair.
type MultiversionGenerator interface {
	GenerateTasks(suite *GeneratedSuite, mixes []VersionMixConfig,
		params MultiversionParams) ([]*GeneratedTask, error)
}

// Emitter renders a generated suite and its tasks to configuration files.
type Emitter interface {
	Write(ctx context.Context, suite *GeneratedSuite, tasks []*GeneratedTask,
		display *DisplayTask) error
}
