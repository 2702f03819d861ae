package schema

import (
	"strings"

	"github.com/oneconfig/oneconfig/pkg/document"
)

// OpenEndedKey is the mapping key that marks a schema mapping as accepting
// arbitrary additional fields.
const OpenEndedKey = "..."

var scalarTags = map[string]ScalarType{
	"!string":  TypeString,
	"!text":    TypeText,
	"!integer": TypeInteger,
	"!decimal": TypeDecimal,
	"!url":     TypeURL,
	"!email":   TypeEmail,
}

// Compile turns a schema source tree into an immutable rule tree.
//
// The source language:
//
//   - a mapping whose values are schema nodes declares a Mapping; the
//     special key "..." (with a null value) makes it open-ended
//   - a node tagged with a type tag (!string, !text, !integer, !decimal,
//     !url, !email) declares a Scalar; a scalar payload is its hint, a
//     mapping payload holds constraints (minLength, maxLength, min, max,
//     precision, match) plus hint, default and optional
//   - !list over a one-element sequence declares a List of that element;
//     a mapping payload is shorthand for a list of that mapping
//   - !one_of and !any_of over a sequence declare alternatives in order
//   - !optional over a mapping with a single "of" key wraps that child;
//     any other mapping payload is shorthand for an optional Mapping
//
// Malformed definitions are rejected with a *Error locating the offending
// node in the source tree.
func Compile(src document.Value) (Node, error) {
	return compileNode(src, document.Path{})
}

func compileNode(src document.Value, path document.Path) (Node, error) {
	if src.IsZero() {
		return nil, errorf(path, "empty schema node")
	}
	tag := src.Tag()
	if tag == "" {
		switch src.Kind() {
		case document.KindMapping:
			return compileMapping(src, path)
		case document.KindSequence:
			return nil, errorf(path, "sequence needs a !list, !one_of or !any_of tag")
		default:
			if src.IsNull() {
				return nil, errorf(path, "expected a type tag or a mapping of fields")
			}
			return nil, errorf(path, "missing type tag on %q", src.Text())
		}
	}
	if typ, ok := scalarTags[tag]; ok {
		return compileScalar(typ, src, path)
	}
	switch tag {
	case "!list":
		return compileList(src, path)
	case "!one_of":
		return compileAlternatives(src, path, true)
	case "!any_of":
		return compileAlternatives(src, path, false)
	case "!optional":
		return compileOptional(src, path)
	default:
		return nil, errorf(path, "unknown tag %q", tag)
	}
}

func compileMapping(src document.Value, path document.Path) (Node, error) {
	m := &Mapping{}
	for _, key := range src.Keys() {
		child, _ := src.Get(key)
		if key == OpenEndedKey {
			if !child.IsNull() {
				return nil, errorf(path.Key(key), "open-ended marker takes no value")
			}
			m.OpenEnded = true
			continue
		}
		node, err := compileNode(child, path.Key(key))
		if err != nil {
			return nil, err
		}
		m.Fields = append(m.Fields, Field{Name: key, Schema: node})
	}
	return m, nil
}

func compileScalar(typ ScalarType, src document.Value, path document.Path) (Node, error) {
	s := &Scalar{Type: typ}

	switch src.Kind() {
	case document.KindScalar:
		if !src.IsNull() {
			s.Hint = strings.TrimSpace(src.Text())
		}
		return s, nil
	case document.KindSequence:
		return nil, errorf(path, "%s does not take a sequence", typ.Tag())
	}

	optional := false
	for _, key := range src.Keys() {
		val, _ := src.Get(key)
		var err *Error
		switch key {
		case "hint":
			s.Hint, err = stringConstraint(val, path.Key(key))
		case "default":
			if val.Kind() != document.KindScalar || val.IsNull() {
				return nil, errorf(path.Key(key), "default must be a scalar")
			}
			def := val
			s.Default = &def
		case "optional":
			optional, err = boolConstraint(val, path.Key(key))
		case "minLength":
			s.Constraints.MinLength, err = lengthConstraint(typ, val, path.Key(key))
		case "maxLength":
			s.Constraints.MaxLength, err = lengthConstraint(typ, val, path.Key(key))
		case "min":
			s.Constraints.Min, err = boundConstraint(typ, val, path.Key(key))
		case "max":
			s.Constraints.Max, err = boundConstraint(typ, val, path.Key(key))
		case "precision":
			s.Constraints.Precision, err = precisionConstraint(typ, val, path.Key(key))
		case "match":
			s.Constraints.Match, err = matchConstraint(typ, val, path.Key(key))
		default:
			return nil, errorf(path.Key(key), "unknown constraint %q for %s", key, typ.Tag())
		}
		if err != nil {
			return nil, err
		}
	}

	c := s.Constraints
	if c.MinLength != nil && c.MaxLength != nil && *c.MinLength > *c.MaxLength {
		return nil, errorf(path, "minLength %d exceeds maxLength %d", *c.MinLength, *c.MaxLength)
	}
	if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
		return nil, errorf(path, "min %v exceeds max %v", *c.Min, *c.Max)
	}

	if s.Default != nil {
		if vs := scalarViolations(s, *s.Default, path.Key("default")); len(vs) > 0 {
			return nil, errorf(path.Key("default"), "default does not satisfy the field: %s", vs[0].Message)
		}
	}

	if optional {
		return &Optional{Inner: s}, nil
	}
	return s, nil
}

func compileList(src document.Value, path document.Path) (Node, error) {
	switch src.Kind() {
	case document.KindSequence:
		if src.Len() != 1 {
			return nil, errorf(path, "!list takes exactly one element schema, found %d", src.Len())
		}
		elem, err := compileNode(src.Index(0), path.Index(0))
		if err != nil {
			return nil, err
		}
		if _, ok := elem.(*Optional); ok {
			return nil, errorf(path.Index(0), "list elements cannot be optional")
		}
		return &List{Elem: elem}, nil
	case document.KindMapping:
		elem, err := compileMapping(src, path)
		if err != nil {
			return nil, err
		}
		return &List{Elem: elem}, nil
	default:
		return nil, errorf(path, "!list takes a one-element sequence or a mapping")
	}
}

func compileAlternatives(src document.Value, path document.Path, exclusive bool) (Node, error) {
	tag := "!any_of"
	if exclusive {
		tag = "!one_of"
	}
	if src.Kind() != document.KindSequence {
		return nil, errorf(path, "%s takes a sequence of alternatives", tag)
	}
	if src.Len() == 0 {
		return nil, errorf(path, "%s needs at least one alternative", tag)
	}
	alts := make([]Node, src.Len())
	for i, item := range src.Items() {
		alt, err := compileNode(item, path.Index(i))
		if err != nil {
			return nil, err
		}
		if _, ok := alt.(*Optional); ok {
			return nil, errorf(path.Index(i), "alternatives cannot be optional")
		}
		alts[i] = alt
	}
	if exclusive {
		return &OneOf{Alternatives: alts}, nil
	}
	return &AnyOf{Alternatives: alts}, nil
}

func compileOptional(src document.Value, path document.Path) (Node, error) {
	if src.Kind() != document.KindMapping {
		return nil, errorf(path, "!optional takes a mapping, or {of: <schema>} for a non-mapping child")
	}
	var inner Node
	var err error
	if keys := src.Keys(); len(keys) == 1 && keys[0] == "of" {
		child, _ := src.Get("of")
		inner, err = compileNode(child, path.Key("of"))
	} else {
		inner, err = compileMapping(src, path)
	}
	if err != nil {
		return nil, err
	}
	if _, ok := inner.(*Optional); ok {
		return nil, errorf(path, "optional cannot wrap optional")
	}
	return &Optional{Inner: inner}, nil
}

func stringConstraint(v document.Value, path document.Path) (string, *Error) {
	if v.Kind() != document.KindScalar || v.Scalar() != document.ScalarString {
		return "", errorf(path, "expected a string, found %s", describeValue(v))
	}
	return v.Text(), nil
}

func boolConstraint(v document.Value, path document.Path) (bool, *Error) {
	b, ok := v.Bool()
	if !ok {
		return false, errorf(path, "expected true or false, found %s", describeValue(v))
	}
	return b, nil
}

func lengthConstraint(typ ScalarType, v document.Value, path document.Path) (*int, *Error) {
	if !stringLike(typ) {
		return nil, errorf(path, "length constraints do not apply to %s", typ.Tag())
	}
	n, ok := v.Int64()
	if !ok || n < 0 {
		return nil, errorf(path, "expected a non-negative integer, found %s", describeValue(v))
	}
	i := int(n)
	return &i, nil
}

func boundConstraint(typ ScalarType, v document.Value, path document.Path) (*float64, *Error) {
	if typ != TypeInteger && typ != TypeDecimal {
		return nil, errorf(path, "numeric bounds do not apply to %s", typ.Tag())
	}
	f, ok := v.Float64()
	if !ok {
		return nil, errorf(path, "expected a number, found %s", describeValue(v))
	}
	return &f, nil
}

func precisionConstraint(typ ScalarType, v document.Value, path document.Path) (*int, *Error) {
	if typ != TypeDecimal {
		return nil, errorf(path, "precision applies to !decimal only")
	}
	n, ok := v.Int64()
	if !ok || n < 0 {
		return nil, errorf(path, "expected a non-negative integer, found %s", describeValue(v))
	}
	i := int(n)
	return &i, nil
}

func matchConstraint(typ ScalarType, v document.Value, path document.Path) (*Pattern, *Error) {
	if !stringLike(typ) {
		return nil, errorf(path, "match does not apply to %s", typ.Tag())
	}
	expr, err := stringConstraint(v, path)
	if err != nil {
		return nil, err
	}
	p, perr := CompilePattern(expr)
	if perr != nil {
		return nil, errorf(path, "%v", perr)
	}
	return p, nil
}

func stringLike(typ ScalarType) bool {
	switch typ {
	case TypeString, TypeText, TypeURL, TypeEmail:
		return true
	default:
		return false
	}
}
