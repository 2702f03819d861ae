package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oneconfig/oneconfig/pkg/document"
)

// NodeKind discriminates the compiled rule node variants.
type NodeKind int

const (
	KindScalar NodeKind = iota
	KindList
	KindMapping
	KindOneOf
	KindAnyOf
	KindOptional
)

// Node is one rule of a compiled schema. The set of implementations is
// closed; values are produced by Compile or by the dsl package and are
// treated as immutable once built.
type Node interface {
	Kind() NodeKind

	// label is the short human name used in violation messages.
	label() string
}

// ScalarType enumerates the leaf value types a schema can require.
type ScalarType int

const (
	// TypeString accepts single-line text.
	TypeString ScalarType = iota
	// TypeText accepts text of any length, including line breaks.
	TypeText
	// TypeInteger accepts whole numbers.
	TypeInteger
	// TypeDecimal accepts integers and floating point numbers.
	TypeDecimal
	// TypeURL accepts absolute URLs with a scheme and a host.
	TypeURL
	// TypeEmail accepts bare email addresses.
	TypeEmail
)

func (t ScalarType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeInteger:
		return "integer"
	case TypeDecimal:
		return "decimal"
	case TypeURL:
		return "url"
	case TypeEmail:
		return "email"
	default:
		return "string"
	}
}

// Tag returns the schema language tag for the type, for example "!string".
func (t ScalarType) Tag() string { return "!" + t.String() }

// Pattern is a compiled match constraint. The expression is anchored at both
// ends, so it must describe the entire value, not a fragment of it.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// CompilePattern compiles a match expression using RE2 syntax.
func CompilePattern(expr string) (*Pattern, error) {
	re, err := regexp.Compile(`\A(?:` + expr + `)\z`)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
	}
	return &Pattern{source: expr, re: re}, nil
}

// Source returns the expression as written in the schema.
func (p *Pattern) Source() string { return p.source }

// MatchString reports whether the whole string matches the pattern.
func (p *Pattern) MatchString(s string) bool { return p.re.MatchString(s) }

func (p *Pattern) String() string { return p.source }

// Constraints narrows the values a Scalar accepts. Nil fields are
// unbounded. Which fields are legal depends on the scalar type: lengths and
// match apply to string-like types, bounds to numeric types, precision to
// decimals only.
type Constraints struct {
	MinLength *int
	MaxLength *int
	Min       *float64
	Max       *float64
	Precision *int
	Match     *Pattern
}

func (c Constraints) isZero() bool {
	return c.MinLength == nil && c.MaxLength == nil && c.Min == nil &&
		c.Max == nil && c.Precision == nil && c.Match == nil
}

// Scalar requires a leaf value of a given type.
type Scalar struct {
	Type        ScalarType
	Constraints Constraints

	// Hint is a short human description carried into violation messages.
	Hint string

	// Default, when set, is substituted for the field when it is absent.
	Default *document.Value
}

func (s *Scalar) Kind() NodeKind { return KindScalar }
func (s *Scalar) label() string  { return s.Type.String() }

// List requires a sequence whose every element satisfies Elem.
type List struct {
	Elem Node
}

func (l *List) Kind() NodeKind { return KindList }
func (l *List) label() string  { return "list of " + l.Elem.label() }

// Field is one declared entry of a Mapping. A field is required unless its
// schema is wrapped in Optional.
type Field struct {
	Name   string
	Schema Node
}

// Required reports whether the field must be present.
func (f Field) Required() bool {
	_, optional := f.Schema.(*Optional)
	return !optional
}

// Mapping requires a mapping with the declared fields. Undeclared keys are
// rejected unless OpenEnded is set, in which case they are carried through
// unvalidated.
type Mapping struct {
	Fields    []Field
	OpenEnded bool
}

func (m *Mapping) Kind() NodeKind { return KindMapping }
func (m *Mapping) label() string  { return "mapping" }

// Field returns the declared field with the given name.
func (m *Mapping) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// OneOf requires the value to satisfy exactly one alternative.
type OneOf struct {
	Alternatives []Node
}

func (o *OneOf) Kind() NodeKind { return KindOneOf }
func (o *OneOf) label() string  { return "one of [" + labels(o.Alternatives) + "]" }

// AnyOf checks each element of a sequence, or a single non-sequence value,
// against a set of alternatives; matching any one of them suffices.
type AnyOf struct {
	Alternatives []Node
}

func (a *AnyOf) Kind() NodeKind { return KindAnyOf }
func (a *AnyOf) label() string  { return "any of [" + labels(a.Alternatives) + "]" }

// Optional marks its inner schema as allowed to be absent. It changes field
// presence rules only; when a value is present it is validated against Inner.
type Optional struct {
	Inner Node
}

func (o *Optional) Kind() NodeKind { return KindOptional }
func (o *Optional) label() string  { return o.Inner.label() }

// Describe returns the short human name of a node, as used in messages.
func Describe(n Node) string { return n.label() }

func labels(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.label()
	}
	return strings.Join(parts, ", ")
}

// matchTag returns the tag recorded on a normalized value when the given
// alternative wins a OneOf match. Structural alternatives without a tag of
// their own leave the value untagged.
func matchTag(n Node) string {
	switch t := n.(type) {
	case *Scalar:
		return t.Type.Tag()
	case *List:
		return "!list"
	case *Optional:
		return matchTag(t.Inner)
	default:
		return ""
	}
}
