package dsl

import (
	"github.com/oneconfig/oneconfig/pkg/document"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

// ScalarBuilder configures one leaf value rule.
type ScalarBuilder struct {
	tag   string
	hint  string
	pairs []constraintPair
	err   error
}

type constraintPair struct {
	key   string
	value document.Value
}

func newScalar(tag string) *ScalarBuilder {
	return &ScalarBuilder{tag: tag}
}

// String declares a single-line string value.
func String() *ScalarBuilder { return newScalar("!string") }

// Text declares a string value that may span multiple lines.
func Text() *ScalarBuilder { return newScalar("!text") }

// Integer declares a whole-number value.
func Integer() *ScalarBuilder { return newScalar("!integer") }

// Decimal declares a numeric value that may carry a fraction.
func Decimal() *ScalarBuilder { return newScalar("!decimal") }

// URL declares an absolute URL value.
func URL() *ScalarBuilder { return newScalar("!url") }

// Email declares an email address value.
func Email() *ScalarBuilder { return newScalar("!email") }

func (s *ScalarBuilder) put(key string, value document.Value) *ScalarBuilder {
	s.pairs = append(s.pairs, constraintPair{key: key, value: value})
	return s
}

// Hint attaches a short human-readable description. It surfaces in
// missing-field reports and generated schema documentation.
func (s *ScalarBuilder) Hint(text string) *ScalarBuilder {
	s.hint = text
	return s
}

// MinLength requires at least n characters, counted in code points.
func (s *ScalarBuilder) MinLength(n int) *ScalarBuilder {
	return s.put("minLength", document.NewInt(int64(n)))
}

// MaxLength allows at most n characters, counted in code points.
func (s *ScalarBuilder) MaxLength(n int) *ScalarBuilder {
	return s.put("maxLength", document.NewInt(int64(n)))
}

// Match requires the whole value to match the pattern.
func (s *ScalarBuilder) Match(pattern string) *ScalarBuilder {
	return s.put("match", document.NewString(pattern))
}

// Min sets the inclusive lower bound of a numeric value.
func (s *ScalarBuilder) Min(bound float64) *ScalarBuilder {
	return s.put("min", document.NewFloat(bound))
}

// Max sets the inclusive upper bound of a numeric value.
func (s *ScalarBuilder) Max(bound float64) *ScalarBuilder {
	return s.put("max", document.NewFloat(bound))
}

// Precision caps the number of decimal places of a decimal value.
func (s *ScalarBuilder) Precision(digits int) *ScalarBuilder {
	return s.put("precision", document.NewInt(int64(digits)))
}

// Default substitutes value when the field is absent. The value must
// satisfy the scalar's own type and constraints; Build rejects it otherwise.
func (s *ScalarBuilder) Default(value any) *ScalarBuilder {
	v, err := document.FromGo(value)
	if err != nil {
		if s.err == nil {
			s.err = err
		}
		return s
	}
	return s.put("default", v)
}

// Build compiles the declaration into a validation-ready rule tree.
func (s *ScalarBuilder) Build() (schema.Node, error) {
	return build(s)
}

func (s *ScalarBuilder) source() (document.Value, error) {
	if s.err != nil {
		return document.Value{}, s.err
	}
	if len(s.pairs) == 0 {
		if s.hint == "" {
			return document.Null().WithTag(s.tag), nil
		}
		return document.NewString(s.hint).WithTag(s.tag), nil
	}
	out := document.NewMapping()
	if s.hint != "" {
		out.Put("hint", document.NewString(s.hint))
	}
	for _, p := range s.pairs {
		out.Put(p.key, p.value)
	}
	return out.WithTag(s.tag), nil
}
