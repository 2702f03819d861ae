package oneconfig

import (
	"fmt"
	"log/slog"

	"github.com/oneconfig/oneconfig/internal/logging"
	"github.com/oneconfig/oneconfig/internal/report"
	"github.com/oneconfig/oneconfig/pkg/adapters/jsondoc"
	"github.com/oneconfig/oneconfig/pkg/adapters/tomldoc"
	"github.com/oneconfig/oneconfig/pkg/adapters/yamldoc"
	"github.com/oneconfig/oneconfig/pkg/document"
	"github.com/oneconfig/oneconfig/pkg/export"
	"github.com/oneconfig/oneconfig/pkg/interp"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

// Checker is the high-level entry point for the library. It wraps a
// compiled schema and validates documents against it. A Checker is
// immutable after construction and safe for concurrent use.
type Checker struct {
	node        schema.Node
	logger      *slog.Logger
	maxDepth    int
	interpolate bool
}

// NewChecker compiles YAML schema source into a Checker.
func NewChecker(schemaSource []byte, opts ...Option) (*Checker, error) {
	doc, err := yamldoc.Decode(schemaSource)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	node, err := schema.Compile(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return NewCheckerFromNode(node, opts...), nil
}

// NewCheckerFromNode wraps an already compiled rule tree. Useful when
// the same schema backs several checkers with different options.
func NewCheckerFromNode(node schema.Node, opts ...Option) *Checker {
	c := &Checker{
		node:   node,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate checks a parsed document tree against the schema. Under
// WithInterpolation, !ref scalars are resolved first; a broken
// reference is an error, not a violation.
func (c *Checker) Validate(doc document.Value) (*schema.Result, error) {
	if c.interpolate {
		resolved, err := interp.Resolve(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve references: %w", err)
		}
		doc = resolved
	}
	var opts []schema.Option
	if c.maxDepth > 0 {
		opts = append(opts, schema.WithMaxDepth(c.maxDepth))
	}
	res := schema.Validate(c.node, doc, opts...)
	c.logger.Debug("document validated", "valid", res.Valid(), "violations", len(res.Violations))
	return res, nil
}

// ValidateYAML parses YAML and validates it.
func (c *Checker) ValidateYAML(data []byte) (*schema.Result, error) {
	doc, err := yamldoc.Decode(data)
	if err != nil {
		return nil, err
	}
	return c.Validate(doc)
}

// ValidateJSON parses JSON and validates it.
func (c *Checker) ValidateJSON(data []byte) (*schema.Result, error) {
	doc, err := jsondoc.Decode(data)
	if err != nil {
		return nil, err
	}
	return c.Validate(doc)
}

// ValidateTOML parses TOML and validates it.
func (c *Checker) ValidateTOML(data []byte) (*schema.Result, error) {
	doc, err := tomldoc.Decode(data)
	if err != nil {
		return nil, err
	}
	return c.Validate(doc)
}

// Schema returns the compiled rule tree.
func (c *Checker) Schema() schema.Node { return c.node }

// Doc renders a markdown reference for the schema, one table row per
// declared field.
func (c *Checker) Doc(title string) string {
	return report.SchemaMarkdown(title, c.node)
}

// JSONSchema renders the schema as a JSON Schema draft-07 document, for
// editors and CI pipelines that already speak that format.
func (c *Checker) JSONSchema() ([]byte, error) {
	return export.Generate(c.node)
}

// DecodeDocument parses raw bytes in the named format into a document
// tree. Supported formats are yaml (the default when format is empty),
// json, jsonc and toml.
func DecodeDocument(format string, data []byte) (document.Value, error) {
	switch format {
	case "", "yaml":
		return yamldoc.Decode(data)
	case "json":
		return jsondoc.Decode(data)
	case "jsonc":
		return jsondoc.DecodeJSONC(data)
	case "toml":
		return tomldoc.Decode(data)
	default:
		return document.Value{}, fmt.Errorf("unknown document format %q", format)
	}
}
