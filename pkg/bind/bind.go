// Package bind decodes document trees into Go structs.
//
// It sits after validation in the intended flow: validate first, then
// bind the normalized result, so defaults are already substituted and
// types already checked. Fields are matched by "mapstructure" tags,
// falling back to case-insensitive field names.
package bind

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/oneconfig/oneconfig/pkg/document"
)

// Bind decodes a document into target, which must be a pointer.
// Scalars convert leniently the way YAML readers expect: a "8080"
// string fills an int field and an integer fills a float field.
func Bind(doc document.Value, target any) error {
	return decode(doc, target, false)
}

// BindStrict behaves like Bind but rejects document keys that have no
// corresponding struct field, catching the typos an open-ended schema
// lets through.
func BindStrict(doc document.Value, target any) error {
	return decode(doc, target, true)
}

func decode(doc document.Value, target any, strict bool) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      strict,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(doc.Interface()); err != nil {
		return fmt.Errorf("failed to bind document: %w", err)
	}
	return nil
}
