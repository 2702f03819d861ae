/*
Package oneconfig validates configuration documents against declarative YAML schemas.

A schema is itself a YAML document: field names map to type tags (!string, !integer, !url, ...), and nested mappings declare nested structure. The compiler turns that source into an immutable rule tree; the validator walks a parsed document against the tree and reports every violation in one pass.

# Concept

oneconfig separates the schema (what a configuration must look like) from the documents that claim to satisfy it. The same compiled schema validates YAML, JSON, JSONC and TOML inputs, because every parser produces the same neutral document tree. This Hexagonal Architecture lets the core be embedded in any interface: CLI, HTTP service, or CI pipeline.

# Key Features

  - Exhaustive Reporting: a single run reports every violation with its path, not just the first.
  - Deterministic Results: the same schema and document always produce the same report, in the same order.
  - Normalization: valid documents come back with defaults filled in and keys in schema order.
  - Format Neutrality: YAML, JSON, JSONC and TOML documents validate against one schema.
  - Exports: schemas render to JSON Schema draft-07 and to markdown reference tables.

# Usage

Compile a schema once and validate as many documents as you like.

	package main

	import (
		"fmt"
		"log"

		"github.com/oneconfig/oneconfig"
	)

	func main() {
		schema := []byte("host: !string\n" +
			"port: !integer\n" +
			"  min: 1\n" +
			"  max: 65535\n" +
			"channel: !string\n" +
			"  match: alpha|beta|stable\n" +
			"  default: stable\n")

		checker, err := oneconfig.NewChecker(schema)
		if err != nil {
			log.Fatal(err)
		}

		res, err := checker.ValidateYAML([]byte("host: example.com\nport: 8080\n"))
		if err != nil {
			log.Fatal(err)
		}

		if res.Valid() {
			fmt.Println("configuration accepted")
			return
		}
		for _, v := range res.Violations {
			fmt.Printf("%s: %s\n", v.Path, v.Message)
		}
	}

For a long-lived service that stores schemas and validates over HTTP, see the registry and httpapi packages. For one-off checks from a terminal, the oneconfig command wraps all of this.
*/
package oneconfig
