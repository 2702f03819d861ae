package schema

import (
	"fmt"
	"math"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/oneconfig/oneconfig/pkg/document"
)

// DefaultMaxDepth bounds how deeply Validate descends into an input tree.
const DefaultMaxDepth = 64

// Option adjusts a validation run.
type Option func(*validator)

// WithMaxDepth replaces DefaultMaxDepth. Values below one are ignored.
func WithMaxDepth(n int) Option {
	return func(v *validator) {
		if n > 0 {
			v.maxDepth = n
		}
	}
}

type validator struct {
	maxDepth   int
	violations []Violation
}

// Validate checks doc against a compiled schema and returns the outcome.
//
// The whole tree is walked even after the first violation, so a single run
// reports everything that is wrong. The walk is deterministic: the same
// schema and document always produce the same result, violations included.
// Branches nested deeper than the depth limit are reported and skipped, not
// descended.
func Validate(root Node, doc document.Value, opts ...Option) *Result {
	if root == nil {
		panic("schema: Validate called with a nil schema")
	}
	v := &validator{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(v)
	}
	norm := v.walk(root, doc, document.Path{}, 0)
	if len(v.violations) > 0 {
		return &Result{Violations: v.violations}
	}
	return &Result{Normalized: norm}
}

func (v *validator) report(path document.Path, kind ViolationKind, format string, args ...any) {
	v.violations = append(v.violations, Violation{
		Path:    path,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// walk validates doc against n and returns the normalized subtree. The
// returned value is only meaningful when no violations were recorded for
// this branch.
func (v *validator) walk(n Node, doc document.Value, path document.Path, depth int) document.Value {
	if depth > v.maxDepth {
		v.report(path, DepthExceeded, "nesting exceeds the maximum depth of %d", v.maxDepth)
		return doc
	}
	if doc.IsZero() {
		v.report(path, TypeMismatch, "expected %s, found nothing", n.label())
		return doc
	}

	switch t := n.(type) {
	case *Scalar:
		v.violations = append(v.violations, scalarViolations(t, doc, path)...)
		return doc
	case *Optional:
		// Presence is the enclosing mapping's concern; a present value is
		// validated as if it were required.
		return v.walk(t.Inner, doc, path, depth)
	case *List:
		return v.walkList(t, doc, path, depth)
	case *Mapping:
		return v.walkMapping(t, doc, path, depth)
	case *OneOf:
		return v.walkOneOf(t, doc, path, depth)
	case *AnyOf:
		return v.walkAnyOf(t, doc, path, depth)
	default:
		panic(fmt.Sprintf("schema: unknown node type %T", n))
	}
}

func (v *validator) walkList(l *List, doc document.Value, path document.Path, depth int) document.Value {
	if doc.Kind() != document.KindSequence {
		v.report(path, TypeMismatch, "expected %s, found %s", l.label(), describeValue(doc))
		return doc
	}
	out := document.NewSequence()
	for i, item := range doc.Items() {
		out.Append(v.walk(l.Elem, item, path.Index(i), depth+1))
	}
	return out
}

func (v *validator) walkMapping(m *Mapping, doc document.Value, path document.Path, depth int) document.Value {
	if doc.Kind() != document.KindMapping {
		v.report(path, TypeMismatch, "expected mapping, found %s", describeValue(doc))
		return doc
	}

	// Declared fields first, in schema order; the normalized mapping adopts
	// the same order so output is canonical regardless of input layout.
	out := document.NewMapping()
	for _, f := range m.Fields {
		fpath := path.Key(f.Name)
		child, present := doc.Get(f.Name)
		if present {
			out.Put(f.Name, v.walk(f.Schema, child, fpath, depth+1))
			continue
		}
		if def, ok := fieldDefault(f.Schema); ok {
			out.Put(f.Name, def.Clone())
			continue
		}
		if !f.Required() {
			continue
		}
		if hint := fieldHint(f.Schema); hint != "" {
			v.report(fpath, MissingField, "required field is missing (%s)", hint)
		} else {
			v.report(fpath, MissingField, "required field is missing")
		}
	}

	// Then undeclared keys, in input order.
	for _, key := range doc.Keys() {
		if _, declared := m.Field(key); declared {
			continue
		}
		if m.OpenEnded {
			child, _ := doc.Get(key)
			out.Put(key, child.Clone())
			continue
		}
		v.report(path.Key(key), UnknownField, "field is not declared in the schema")
	}
	return out
}

func (v *validator) walkOneOf(o *OneOf, doc document.Value, path document.Path, depth int) document.Value {
	var (
		matched []int
		norms   []document.Value
		reasons []string
	)
	for i, alt := range o.Alternatives {
		sub := &validator{maxDepth: v.maxDepth}
		norm := sub.walk(alt, doc, path, depth)
		if len(sub.violations) == 0 {
			matched = append(matched, i)
			norms = append(norms, norm)
			continue
		}
		reasons = append(reasons, fmt.Sprintf("%s: %s", alt.label(), sub.violations[0].Message))
	}

	switch len(matched) {
	case 1:
		norm := norms[0]
		if tag := matchTag(o.Alternatives[matched[0]]); tag != "" {
			norm = norm.WithTag(tag)
		}
		return norm
	case 0:
		v.report(path, NoAlternativeMatched, "no alternative matched: %s", strings.Join(reasons, "; "))
	default:
		names := make([]string, len(matched))
		for i, idx := range matched {
			names[i] = o.Alternatives[idx].label()
		}
		v.report(path, AmbiguousMatch, "value matches %d alternatives (%s); exactly one must match",
			len(matched), strings.Join(names, ", "))
	}
	return doc
}

func (v *validator) walkAnyOf(a *AnyOf, doc document.Value, path document.Path, depth int) document.Value {
	// Non-sequence input is checked as a single element.
	if doc.Kind() != document.KindSequence {
		norm, ok, reasons := v.matchAny(a.Alternatives, doc, path, depth)
		if !ok {
			v.report(path, NoAlternativeMatched, "value matches no alternative: %s", strings.Join(reasons, "; "))
			return doc
		}
		return norm
	}

	out := document.NewSequence()
	for i, item := range doc.Items() {
		ipath := path.Index(i)
		norm, ok, reasons := v.matchAny(a.Alternatives, item, ipath, depth+1)
		if !ok {
			v.report(ipath, NoAlternativeMatched, "element matches no alternative: %s", strings.Join(reasons, "; "))
			norm = item
		}
		out.Append(norm)
	}
	return out
}

func (v *validator) matchAny(alts []Node, doc document.Value, path document.Path, depth int) (document.Value, bool, []string) {
	var reasons []string
	for _, alt := range alts {
		sub := &validator{maxDepth: v.maxDepth}
		norm := sub.walk(alt, doc, path, depth)
		if len(sub.violations) == 0 {
			return norm, true, nil
		}
		reasons = append(reasons, fmt.Sprintf("%s: %s", alt.label(), sub.violations[0].Message))
	}
	return document.Value{}, false, reasons
}

// scalarViolations checks one leaf against a Scalar rule. A type mismatch
// short-circuits; constraint checks run only on correctly typed values and
// every failed constraint is reported.
func scalarViolations(s *Scalar, doc document.Value, path document.Path) []Violation {
	mismatch := func() []Violation {
		return []Violation{{
			Path:    path,
			Kind:    TypeMismatch,
			Message: fmt.Sprintf("expected %s, found %s", s.Type, describeValue(doc)),
		}}
	}
	if doc.Kind() != document.KindScalar || doc.IsNull() {
		return mismatch()
	}

	var out []Violation
	constraint := func(format string, args ...any) {
		out = append(out, Violation{
			Path:    path,
			Kind:    ConstraintFailed,
			Message: fmt.Sprintf(format, args...),
		})
	}
	badFormat := func(format string, args ...any) {
		out = append(out, Violation{
			Path:    path,
			Kind:    TypeMismatch,
			Message: fmt.Sprintf(format, args...),
		})
	}

	text := doc.Text()
	switch s.Type {
	case TypeString:
		if doc.Scalar() != document.ScalarString || strings.Contains(text, "\n") {
			return mismatch()
		}
	case TypeText:
		if doc.Scalar() != document.ScalarString {
			return mismatch()
		}
	case TypeInteger:
		if _, ok := doc.Int64(); !ok {
			f, numeric := doc.Float64()
			if !numeric || f != math.Trunc(f) {
				return mismatch()
			}
		}
	case TypeDecimal:
		if _, ok := doc.Float64(); !ok {
			return mismatch()
		}
	case TypeURL:
		if doc.Scalar() != document.ScalarString || strings.Contains(text, "\n") {
			return mismatch()
		}
		// The format check is part of the type, not a constraint: a value
		// that does not look like an absolute URL has the wrong type.
		if u, err := url.Parse(text); err != nil || u.Scheme == "" || u.Host == "" {
			badFormat("%q is not a valid url", text)
		}
	case TypeEmail:
		if doc.Scalar() != document.ScalarString || strings.Contains(text, "\n") {
			return mismatch()
		}
		if addr, err := mail.ParseAddress(text); err != nil || addr.Address != text {
			badFormat("%q is not a valid email address", text)
		}
	}

	c := s.Constraints
	if c.isZero() {
		return out
	}
	if stringLike(s.Type) {
		length := utf8.RuneCountInString(text)
		if c.MinLength != nil && length < *c.MinLength {
			constraint("length %d is shorter than the minimum length %d", length, *c.MinLength)
		}
		if c.MaxLength != nil && length > *c.MaxLength {
			constraint("length %d exceeds the maximum length %d", length, *c.MaxLength)
		}
		if c.Match != nil && !c.Match.MatchString(text) {
			constraint("%q does not match pattern %q", text, c.Match.Source())
		}
	} else {
		f, _ := doc.Float64()
		if c.Min != nil && f < *c.Min {
			constraint("value %s is less than the minimum %s", text, formatBound(*c.Min))
		}
		if c.Max != nil && f > *c.Max {
			constraint("value %s exceeds the maximum %s", text, formatBound(*c.Max))
		}
		if c.Precision != nil {
			if digits := fracDigits(text); digits > *c.Precision {
				constraint("%d decimal places exceed the precision of %d", digits, *c.Precision)
			}
		}
	}
	return out
}

func fieldDefault(n Node) (document.Value, bool) {
	switch t := n.(type) {
	case *Scalar:
		if t.Default != nil {
			return *t.Default, true
		}
	case *Optional:
		return fieldDefault(t.Inner)
	}
	return document.Value{}, false
}

func fieldHint(n Node) string {
	switch t := n.(type) {
	case *Scalar:
		return t.Hint
	case *Optional:
		return fieldHint(t.Inner)
	}
	return ""
}

func describeValue(v document.Value) string {
	switch v.Kind() {
	case document.KindMapping:
		return "mapping"
	case document.KindSequence:
		return "sequence"
	case document.KindScalar:
		switch v.Scalar() {
		case document.ScalarNull:
			return "null"
		case document.ScalarBool:
			return "boolean"
		case document.ScalarInt:
			return "integer"
		case document.ScalarFloat:
			return "decimal"
		default:
			if strings.Contains(v.Text(), "\n") {
				return "multi-line text"
			}
			return "string"
		}
	default:
		return "nothing"
	}
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// fracDigits counts decimal places as written, so "0.50" has two even
// though the trailing zero is numerically redundant.
func fracDigits(text string) int {
	if strings.ContainsAny(text, "eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0
		}
		text = strconv.FormatFloat(f, 'f', -1, 64)
	}
	dot := strings.IndexByte(text, '.')
	if dot < 0 {
		return 0
	}
	return len(text) - dot - 1
}
