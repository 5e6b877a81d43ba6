package errors

var (
	// ErrInvalidSplitConfig is returned when the suite split configuration violates its contract.
	ErrInvalidSplitConfig = New("invalid suite split configuration")
	// ErrStatsUnavailable indicates that historic test stats could not be fetched.
	// It is the trigger for the round robin fallback, never a pipeline failure.
	ErrStatsUnavailable = New("historic test stats unavailable")
	// ErrEmptyTaskName is returned when the expansions file is missing the task name.
	ErrEmptyTaskName = New("missing task name in expansions")
	// ErrEmptyBuildVariant is returned when the expansions file is missing the build variant.
	ErrEmptyBuildVariant = New("missing build variant in expansions")
	// ErrNoVersionConfigs is returned when multiversion generation is requested with no version mixes.
	ErrNoVersionConfigs = New("no version mix configurations supplied")
	// ErrEmptyTestList is returned when the test list file contains no tests.
	ErrEmptyTestList = New("empty test list")
	// ErrExcessiveTimeout is returned when a patch build computes a timeout
	// beyond the expected bound.
	ErrExcessiveTimeout = New("generated timeout exceeds the patch build bound")
)

// Error represents a json-encoded API error.
type Error struct {
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New returns a new error message.
func New(text string) error {
	return &Error{Message: text}
}
