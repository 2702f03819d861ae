package schema

import (
	"fmt"

	"github.com/oneconfig/oneconfig/pkg/document"
)

// ViolationKind classifies why a piece of input fails validation.
type ViolationKind string

const (
	// MissingField: a required mapping field is absent.
	MissingField ViolationKind = "missing_field"
	// UnknownField: the input carries a field the schema does not declare.
	UnknownField ViolationKind = "unknown_field"
	// TypeMismatch: the value has the wrong shape or scalar type.
	TypeMismatch ViolationKind = "type_mismatch"
	// ConstraintFailed: the value has the right type but breaks a constraint.
	ConstraintFailed ViolationKind = "constraint_failed"
	// NoAlternativeMatched: no alternative of a one_of or any_of accepts the value.
	NoAlternativeMatched ViolationKind = "no_alternative_matched"
	// AmbiguousMatch: more than one one_of alternative accepts the value.
	AmbiguousMatch ViolationKind = "ambiguous_match"
	// DepthExceeded: the input nests deeper than the configured limit.
	DepthExceeded ViolationKind = "depth_exceeded"
)

// Violation is one reason a document was rejected. A single validation run
// collects every violation in the tree, ordered by a deterministic walk:
// declared fields in schema order, then undeclared keys in input order.
type Violation struct {
	Path    document.Path
	Kind    ViolationKind
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Record is the serializable form of a Violation, suitable for JSON or YAML
// reports and for transport across process boundaries.
type Record struct {
	Path    string        `json:"path" yaml:"path"`
	Kind    ViolationKind `json:"kind" yaml:"kind"`
	Message string        `json:"message" yaml:"message"`
}

// Record converts the violation to its serializable form.
func (v Violation) Record() Record {
	return Record{Path: v.Path.String(), Kind: v.Kind, Message: v.Message}
}

// Result is the outcome of validating one document against a schema.
// A valid result carries the normalized document; an invalid one carries at
// least one violation and a zero Normalized value.
type Result struct {
	// Normalized is the input with defaults substituted for absent fields
	// and the winning one_of alternative recorded as a tag. It is only
	// meaningful when Valid reports true.
	Normalized document.Value

	Violations []Violation
}

// Valid reports whether the document satisfied the schema.
func (r *Result) Valid() bool { return len(r.Violations) == 0 }

// Err returns nil for a valid result and a *ViolationError otherwise.
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &ViolationError{Violations: r.Violations}
}

// Records converts all violations to their serializable form.
func (r *Result) Records() []Record {
	if len(r.Violations) == 0 {
		return nil
	}
	out := make([]Record, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.Record()
	}
	return out
}
