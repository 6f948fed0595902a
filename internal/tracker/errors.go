package tracker

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors forming the engine's error taxonomy. Each class maps
// to a distinct, stable process exit code so calling scripts can branch
// on outcome.
var (
	ErrNotFound            = errors.New("issue not found")
	ErrAllocationExhausted = errors.New("identifier allocation retries exhausted")
	ErrCorruptIssue        = errors.New("corrupt issue")
	ErrValidation          = errors.New("validation found violations")
	ErrTransaction         = errors.New("transaction failed")
	ErrExternalTool        = errors.New("external tool failed")
	ErrNoRepository        = errors.New("not an issues repository (or any of the parent directories)")
	ErrReservedTag         = errors.New("reserved tag")
)

// AmbiguousError is returned when an identifier prefix matches more
// than one issue. It carries every match so the caller can
// disambiguate; the engine never silently picks the first one.
type AmbiguousError struct {
	Prefix  string
	Matches []ID
}

func (e *AmbiguousError) Error() string {
	short := make([]string, len(e.Matches))
	for i, id := range e.Matches {
		short[i] = string(id)
	}
	return fmt.Sprintf("prefix %q matches multiple issues:\n  %s",
		e.Prefix, strings.Join(short, "\n  "))
}

// Process exit codes, one per error class.
const (
	ExitFailure             = 1
	ExitNotFound            = 2
	ExitAmbiguous           = 3
	ExitAllocationExhausted = 4
	ExitCorruptIssue        = 5
	ExitTransaction         = 6
	ExitExternalTool        = 7
	ExitNoRepository        = 128
)

// ExitCode maps an error to its process exit code.
func ExitCode(err error) int {
	var ambiguous *AmbiguousError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.As(err, &ambiguous):
		return ExitAmbiguous
	case errors.Is(err, ErrAllocationExhausted):
		return ExitAllocationExhausted
	case errors.Is(err, ErrCorruptIssue):
		return ExitCorruptIssue
	case errors.Is(err, ErrTransaction):
		return ExitTransaction
	case errors.Is(err, ErrExternalTool):
		return ExitExternalTool
	case errors.Is(err, ErrNoRepository):
		return ExitNoRepository
	default:
		return ExitFailure
	}
}
