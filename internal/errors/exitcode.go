package errors

// Exit codes returned by the CLI on failure. Non-zero codes pair with a
// JSON error object written to stderr.
const (
	ExitSuccess        = 0
	ExitGeneral        = 1
	ExitStateConflict  = 2
	ExitPrecondition   = 3
	ExitNotFound       = 4
	ExitAlreadyExists  = 5
	ExitValidation     = 6
	ExitTimeout        = 7
)

// classExitCode maps each taxonomy class to its CLI exit code.
//
//nolint:gochecknoglobals // static lookup table
var classExitCode = map[Class]int{
	ClassStateConflict: ExitStateConflict,
	ClassPrecondition:  ExitPrecondition,
	ClassNotFound:      ExitNotFound,
	ClassAlreadyExists: ExitAlreadyExists,
	ClassValidation:    ExitValidation,
	ClassTimeout:       ExitTimeout,
}

// ExitCode returns the process exit code for err. Unrecognized errors
// (ClassNone) map to ExitGeneral, nil maps to ExitSuccess.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if code, ok := classExitCode[Classify(err)]; ok {
		return code
	}
	return ExitGeneral
}

// classNames maps each taxonomy class to the lowercase name used in the
// CLI's JSON error objects.
//
//nolint:gochecknoglobals // static lookup table
var classNames = map[Class]string{
	ClassStateConflict: "state_conflict",
	ClassPrecondition:  "precondition",
	ClassNotFound:      "not_found",
	ClassAlreadyExists: "already_exists",
	ClassValidation:    "validation",
	ClassTimeout:       "timeout",
}

// ClassName returns the JSON-facing name for err's taxonomy class, or
// "" for an unrecognized error.
func ClassName(err error) string {
	return classNames[Classify(err)]
}
