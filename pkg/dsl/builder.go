package dsl

import (
	"github.com/oneconfig/oneconfig/pkg/document"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

// Schema is the common interface of all builders. Every builder renders to
// a schema source tree; Build compiles that tree with the same compiler a
// YAML schema goes through, so both routes enforce identical rules.
type Schema interface {
	source() (document.Value, error)
}

func build(s Schema) (schema.Node, error) {
	src, err := s.source()
	if err != nil {
		return nil, err
	}
	return schema.Compile(src)
}

// MappingBuilder declares the fields of a mapping.
type MappingBuilder struct {
	fields []mappingField
	open   bool
}

type mappingField struct {
	name     string
	child    Schema
	optional bool
}

// Mapping starts a new mapping declaration.
func Mapping() *MappingBuilder {
	return &MappingBuilder{}
}

// Require declares a field that must be present.
func (m *MappingBuilder) Require(name string, child Schema) *MappingBuilder {
	m.fields = append(m.fields, mappingField{name: name, child: child})
	return m
}

// Opt declares a field that may be absent. A present value is still
// validated, and a declared default still applies when the field is missing.
func (m *MappingBuilder) Opt(name string, child Schema) *MappingBuilder {
	m.fields = append(m.fields, mappingField{name: name, child: child, optional: true})
	return m
}

// OpenEnded lets the mapping carry undeclared keys through unvalidated.
func (m *MappingBuilder) OpenEnded() *MappingBuilder {
	m.open = true
	return m
}

// Build compiles the declaration into a validation-ready rule tree.
func (m *MappingBuilder) Build() (schema.Node, error) {
	return build(m)
}

func (m *MappingBuilder) source() (document.Value, error) {
	out := document.NewMapping()
	for _, f := range m.fields {
		child, err := f.child.source()
		if err != nil {
			return document.Value{}, err
		}
		if f.optional {
			wrap := document.NewMapping()
			wrap.Put("of", child)
			child = wrap.WithTag("!optional")
		}
		out.Put(f.name, child)
	}
	if m.open {
		out.Put(schema.OpenEndedKey, document.Null())
	}
	return out, nil
}

// ListBuilder declares a sequence whose elements share one schema.
type ListBuilder struct {
	elem Schema
}

// List starts a list declaration with the given element schema.
func List(elem Schema) *ListBuilder {
	return &ListBuilder{elem: elem}
}

// Build compiles the declaration into a validation-ready rule tree.
func (l *ListBuilder) Build() (schema.Node, error) {
	return build(l)
}

func (l *ListBuilder) source() (document.Value, error) {
	elem, err := l.elem.source()
	if err != nil {
		return document.Value{}, err
	}
	return document.NewSequence(elem).WithTag("!list"), nil
}

// ChoiceBuilder declares a set of alternative schemas.
type ChoiceBuilder struct {
	tag  string
	alts []Schema
}

// OneOf declares alternatives of which exactly one must match.
func OneOf(alts ...Schema) *ChoiceBuilder {
	return &ChoiceBuilder{tag: "!one_of", alts: alts}
}

// AnyOf declares alternatives checked element-wise: every element of the
// value (or the value itself, when it is not a sequence) must match at
// least one of them.
func AnyOf(alts ...Schema) *ChoiceBuilder {
	return &ChoiceBuilder{tag: "!any_of", alts: alts}
}

// Build compiles the declaration into a validation-ready rule tree.
func (c *ChoiceBuilder) Build() (schema.Node, error) {
	return build(c)
}

func (c *ChoiceBuilder) source() (document.Value, error) {
	items := make([]document.Value, 0, len(c.alts))
	for _, alt := range c.alts {
		src, err := alt.source()
		if err != nil {
			return document.Value{}, err
		}
		items = append(items, src)
	}
	return document.NewSequence(items...).WithTag(c.tag), nil
}
