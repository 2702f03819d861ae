/*
Package dsl provides a Go DSL (Domain Specific Language) for constructing
schemas programmatically.

It allows developers to declare validation rules using a type-safe, fluent
builder pattern instead of relying on external YAML files. This is
particularly useful for schemas generated at runtime, unit testing, and
leveraging IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/oneconfig/oneconfig/pkg/dsl"
		"github.com/oneconfig/oneconfig/pkg/schema"
	)

	func main() {
		node, err := dsl.Mapping().
			Require("name", dsl.String().MinLength(1).Hint("the project name")).
			Opt("version", dsl.String().Default("1.0.0")).
			Require("author", dsl.OneOf(dsl.String(), dsl.List(dsl.String()))).
			Build()
		if err != nil {
			// a constraint or default was declared inconsistently
		}

		// node is a regular compiled schema
		result := schema.Validate(node, input)
		// ...
	}

Builders render to the same source representation a YAML schema decodes to
and run through the same compiler, so a DSL-built schema behaves exactly
like its YAML twin.
*/
package dsl
