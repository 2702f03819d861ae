// Package export converts compiled schemas into JSON Schema documents.
//
// The output targets draft-07, the dialect editors and language servers
// understand most widely. The conversion is faithful where draft-07 can
// express a rule and approximate where it cannot: a !string with its own
// match constraint loses the implicit single-line pattern, and a winning
// !one_of alternative is not recorded anywhere because JSON Schema has no
// notion of a match tag.
package export

import (
	"fmt"
	"strings"

	"github.com/oneconfig/oneconfig/pkg/adapters/jsondoc"
	"github.com/oneconfig/oneconfig/pkg/document"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

const draft = "http://json-schema.org/draft-07/schema#"

// singleLine stands in for the !string rule that the value must not
// contain line breaks. It only applies when no explicit match constraint
// claims the pattern keyword.
const singleLine = "^[^\n]*$"

// Generate renders a compiled schema as a JSON Schema document.
func Generate(root schema.Node) ([]byte, error) {
	body, err := describe(root)
	if err != nil {
		return nil, err
	}
	out := document.NewMapping()
	out.Put("$schema", document.NewString(draft))
	for _, key := range body.Keys() {
		child, _ := body.Get(key)
		out.Put(key, child)
	}
	return jsondoc.Encode(out)
}

func describe(n schema.Node) (document.Value, error) {
	switch t := n.(type) {
	case *schema.Scalar:
		return describeScalar(t), nil
	case *schema.Optional:
		// Presence is recorded on the enclosing object's required list.
		return describe(t.Inner)
	case *schema.List:
		elem, err := describe(t.Elem)
		if err != nil {
			return document.Value{}, err
		}
		out := document.NewMapping()
		out.Put("type", document.NewString("array"))
		out.Put("items", elem)
		return out, nil
	case *schema.Mapping:
		return describeMapping(t)
	case *schema.OneOf:
		alts, err := describeAll(t.Alternatives)
		if err != nil {
			return document.Value{}, err
		}
		out := document.NewMapping()
		out.Put("oneOf", alts)
		return out, nil
	case *schema.AnyOf:
		return describeAnyOf(t)
	default:
		return document.Value{}, fmt.Errorf("cannot export %T to JSON Schema", n)
	}
}

func describeMapping(m *schema.Mapping) (document.Value, error) {
	props := document.NewMapping()
	required := document.NewSequence()
	for _, f := range m.Fields {
		fs, err := describe(f.Schema)
		if err != nil {
			return document.Value{}, err
		}
		props.Put(f.Name, fs)
		// A field with a default is filled in when absent, so listing it
		// as required would reject documents the validator accepts.
		if f.Required() && !hasDefault(f.Schema) {
			required.Append(document.NewString(f.Name))
		}
	}
	out := document.NewMapping()
	out.Put("type", document.NewString("object"))
	out.Put("properties", props)
	if required.Len() > 0 {
		out.Put("required", required)
	}
	out.Put("additionalProperties", document.NewBool(m.OpenEnded))
	return out, nil
}

// describeAnyOf exports the element-or-list shape: the value may satisfy
// any alternative directly, or be an array whose every element does.
func describeAnyOf(a *schema.AnyOf) (document.Value, error) {
	alts, err := describeAll(a.Alternatives)
	if err != nil {
		return document.Value{}, err
	}

	items := document.NewMapping()
	items.Put("anyOf", alts.Clone())
	array := document.NewMapping()
	array.Put("type", document.NewString("array"))
	array.Put("items", items)

	variants := alts
	variants.Append(array)
	out := document.NewMapping()
	out.Put("anyOf", variants)
	return out, nil
}

func describeAll(alts []schema.Node) (document.Value, error) {
	out := document.NewSequence()
	for _, alt := range alts {
		v, err := describe(alt)
		if err != nil {
			return document.Value{}, err
		}
		out.Append(v)
	}
	return out, nil
}

func describeScalar(s *schema.Scalar) document.Value {
	out := document.NewMapping()
	switch s.Type {
	case schema.TypeInteger:
		out.Put("type", document.NewString("integer"))
	case schema.TypeDecimal:
		out.Put("type", document.NewString("number"))
	case schema.TypeURL:
		out.Put("type", document.NewString("string"))
		out.Put("format", document.NewString("uri"))
	case schema.TypeEmail:
		out.Put("type", document.NewString("string"))
		out.Put("format", document.NewString("email"))
	default:
		out.Put("type", document.NewString("string"))
	}
	if s.Hint != "" {
		out.Put("description", document.NewString(s.Hint))
	}

	c := s.Constraints
	if c.MinLength != nil {
		out.Put("minLength", document.NewInt(int64(*c.MinLength)))
	}
	if c.MaxLength != nil {
		out.Put("maxLength", document.NewInt(int64(*c.MaxLength)))
	}
	switch {
	case c.Match != nil:
		// JSON Schema patterns are unanchored; ours describe the whole value.
		out.Put("pattern", document.NewString("^(?:"+c.Match.Source()+")$"))
	case s.Type == schema.TypeString:
		out.Put("pattern", document.NewString(singleLine))
	}
	if c.Min != nil {
		out.Put("minimum", document.NewFloat(*c.Min))
	}
	if c.Max != nil {
		out.Put("maximum", document.NewFloat(*c.Max))
	}
	if c.Precision != nil {
		out.Put("multipleOf", document.NewScalar(document.ScalarFloat, multipleOf(*c.Precision)))
	}
	if s.Default != nil {
		out.Put("default", s.Default.Clone())
	}
	return out
}

// multipleOf writes 10^-p as exact decimal text; going through a float64
// would smuggle in representation error.
func multipleOf(p int) string {
	if p <= 0 {
		return "1"
	}
	return "0." + strings.Repeat("0", p-1) + "1"
}

func hasDefault(n schema.Node) bool {
	switch t := n.(type) {
	case *schema.Scalar:
		return t.Default != nil
	case *schema.Optional:
		return hasDefault(t.Inner)
	}
	return false
}
