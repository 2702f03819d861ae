package schema

import (
	"fmt"

	"github.com/oneconfig/oneconfig/pkg/document"
)

// Error reports a defect in a schema definition itself: an unknown tag, a
// constraint that is not legal for the annotated type, a malformed match
// expression, and so on. It is a different failure class from input
// violations; a well-formed schema never produces an Error during
// validation.
type Error struct {
	// Path locates the offending node inside the schema source tree.
	Path   document.Path
	Reason string
}

func (e *Error) Error() string {
	if e.Path.IsRoot() {
		return "schema: " + e.Reason
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Reason)
}

func errorf(path document.Path, format string, args ...any) *Error {
	return &Error{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// ViolationError carries a Result's violations across an error boundary.
// Callers that prefer inspecting the Result directly never see it; it exists
// for code paths that must reduce validation to a single error value.
type ViolationError struct {
	Violations []Violation
}

func (e *ViolationError) Error() string {
	switch len(e.Violations) {
	case 0:
		return "configuration is invalid"
	case 1:
		return "configuration is invalid: " + e.Violations[0].String()
	default:
		return fmt.Sprintf("configuration is invalid: %d violations, first: %s",
			len(e.Violations), e.Violations[0])
	}
}
