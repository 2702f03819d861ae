package dsl

import (
	"strings"
	"testing"

	"github.com/oneconfig/oneconfig/pkg/document"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

func TestBuilder_ProjectSchema(t *testing.T) {
	// 1. Declare the schema using the DSL
	node, err := Mapping().
		Require("name", String().MinLength(1).Hint("the project name")).
		Opt("version", String().Default("1.0.0")).
		Require("author", OneOf(String(), List(String()))).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// 2. Verify the compiled rule tree
	m, ok := node.(*schema.Mapping)
	if !ok {
		t.Fatalf("Build() = %T, want *schema.Mapping", node)
	}
	if len(m.Fields) != 3 {
		t.Fatalf("Expected 3 fields, got %d", len(m.Fields))
	}

	name, _ := m.Field("name")
	if !name.Required() {
		t.Error("Expected 'name' to be required")
	}
	ns, ok := name.Schema.(*schema.Scalar)
	if !ok {
		t.Fatalf("Expected scalar for 'name', got %T", name.Schema)
	}
	if ns.Hint != "the project name" {
		t.Errorf("Expected hint to survive, got %q", ns.Hint)
	}
	if ns.Constraints.MinLength == nil || *ns.Constraints.MinLength != 1 {
		t.Errorf("Expected minLength 1, got %v", ns.Constraints.MinLength)
	}

	version, _ := m.Field("version")
	if version.Required() {
		t.Error("Expected 'version' to be optional")
	}

	author, _ := m.Field("author")
	if _, ok := author.Schema.(*schema.OneOf); !ok {
		t.Errorf("Expected OneOf for 'author', got %T", author.Schema)
	}

	// 3. Validate a document against it
	input := document.NewMapping()
	input.Put("name", document.NewString("demo"))
	input.Put("author", document.NewString("Ada"))

	res := schema.Validate(node, input)
	if !res.Valid() {
		t.Fatalf("Validate() reported violations: %v", res.Violations)
	}
	got, _ := res.Normalized.Get("version")
	if got.Text() != "1.0.0" {
		t.Errorf("Expected default '1.0.0' in normalized output, got %q", got.Text())
	}
}

func TestBuilder_MatchesYAMLCompiledTwin(t *testing.T) {
	// The DSL renders to the same source representation a YAML schema
	// decodes to, so both must reject and accept the same inputs.
	node, err := Mapping().
		Require("threads", Integer().Min(1).Max(128)).
		Require("mirrors", List(URL())).
		OpenEnded().
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	bad := document.NewMapping()
	bad.Put("threads", document.NewInt(0))
	bad.Put("mirrors", document.NewSequence(document.NewString("nope")))
	bad.Put("anything", document.NewString("carried through"))

	res := schema.Validate(node, bad)
	if res.Valid() {
		t.Fatal("Expected violations for out-of-bounds and malformed values")
	}
	if len(res.Violations) != 2 {
		t.Fatalf("Expected 2 violations, got %v", res.Violations)
	}
	for _, v := range res.Violations {
		if v.Path.String() == "anything" {
			t.Error("Open-ended key was validated, expected passthrough")
		}
	}
}

func TestBuilder_AnyOf(t *testing.T) {
	node, err := Mapping().
		Require("contacts", AnyOf(URL(), Email())).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	input := document.NewMapping()
	input.Put("contacts", document.NewSequence(
		document.NewString("https://example.com"),
		document.NewString("dev@example.com"),
	))
	if res := schema.Validate(node, input); !res.Valid() {
		t.Fatalf("Validate() reported violations: %v", res.Violations)
	}
}

func TestBuilder_RejectsBadDeclarations(t *testing.T) {
	tests := []struct {
		name    string
		builder Schema
		wantMsg string
	}{
		{
			"invalid pattern",
			Mapping().Require("name", String().Match("[unclosed")),
			"invalid pattern",
		},
		{
			"default breaks constraints",
			Mapping().Require("name", String().MinLength(5).Default("ab")),
			"default does not satisfy",
		},
		{
			"precision on the wrong type",
			Mapping().Require("name", String().Precision(2)),
			"precision applies to !decimal",
		},
		{
			"inverted bounds",
			Mapping().Require("threads", Integer().Min(9).Max(3)),
			"exceeds max",
		},
		{
			"unconvertible default",
			Mapping().Require("name", String().Default(make(chan int))),
			"chan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := build(tt.builder)
			if err == nil {
				t.Fatal("Build() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestBuilder_NestedMappings(t *testing.T) {
	node, err := Mapping().
		Require("website", Mapping().
			Require("homepage", URL()).
			Opt("mirrors", List(URL()))).
		Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	input := document.NewMapping()
	site := document.NewMapping()
	site.Put("homepage", document.NewString("not a url"))
	input.Put("website", site)

	res := schema.Validate(node, input)
	if res.Valid() {
		t.Fatal("Expected a violation for the malformed homepage")
	}
	if got := res.Violations[0].Path.String(); got != "website.homepage" {
		t.Errorf("Violation path = %q, want website.homepage", got)
	}
}
