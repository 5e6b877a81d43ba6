package taskname

import (
	"fmt"
	"path"
	"strings"

	"github.com/suitegen/suitegen/pkg/constants"
)

// SubTaskName returns the name of a generated sub-task. The zero-based index
// and the total sub-suite count at generation time are both embedded, so names
// are unique within a build variant and shift whenever the partitioning
// changes size. Only same-input runs produce stable names.
func SubTaskName(baseName string, index, total int, buildVariant string) string {
	name := fmt.Sprintf("%s_%d_%d", baseName, index, total)
	if buildVariant != "" {
		name = fmt.Sprintf("%s_%s", name, buildVariant)
	}
	return name
}

// SubSuiteName returns the name of a generated sub-suite resmoke config.
func SubSuiteName(originSuite string, index, total int) string {
	return fmt.Sprintf("%s_%d_%d", path.Base(originSuite), index, total)
}

// MiscSuiteName returns the name of the catch-all suite derived from the
// origin suite.
func MiscSuiteName(originSuite string) string {
	return path.Base(originSuite) + constants.MiscSuffix
}

// MiscTaskName returns the name of the catch-all sub-task.
func MiscTaskName(baseName, buildVariant string) string {
	name := baseName + constants.MiscSuffix
	if buildVariant != "" {
		name = fmt.Sprintf("%s_%s", name, buildVariant)
	}
	return name
}

// SuiteFileName returns the file name a generated sub-suite is written under.
func SuiteFileName(suiteName, buildVariant string) string {
	if buildVariant == "" {
		return suiteName + ".yml"
	}
	return fmt.Sprintf("%s_%s.yml", suiteName, buildVariant)
}

// RemoveGenSuffix strips the generator marker the CI system appends to the
// name of generating tasks.
func RemoveGenSuffix(taskName string) string {
	return strings.TrimSuffix(taskName, constants.GenSuffix)
}
