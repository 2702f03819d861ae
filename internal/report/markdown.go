package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oneconfig/oneconfig/pkg/schema"
)

// SchemaMarkdown renders a markdown reference for a compiled schema:
// one table row per declared field, with nested mappings and list
// elements flattened into dotted paths.
func SchemaMarkdown(title string, root schema.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("| Field | Type | Required | Constraints | Default | Hint |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	if m, ok := unwrap(root).(*schema.Mapping); ok {
		writeMapping(&b, "", m)
	} else {
		writeRows(&b, "(document)", root, true)
	}
	return b.String()
}

func unwrap(n schema.Node) schema.Node {
	if o, ok := n.(*schema.Optional); ok {
		return o.Inner
	}
	return n
}

func writeMapping(b *strings.Builder, prefix string, m *schema.Mapping) {
	for _, f := range m.Fields {
		writeRows(b, joinField(prefix, f.Name), f.Schema, f.Required())
	}
	if m.OpenEnded {
		row(b, joinField(prefix, "*"), "any", false, "undeclared fields pass through", "", "")
	}
}

func writeRows(b *strings.Builder, path string, n schema.Node, required bool) {
	switch t := n.(type) {
	case *schema.Optional:
		writeRows(b, path, t.Inner, false)
	case *schema.Scalar:
		row(b, path, t.Type.String(), required, constraintSummary(t), defaultText(t), t.Hint)
	case *schema.Mapping:
		row(b, path, "mapping", required, "", "", "")
		writeMapping(b, path, t)
	case *schema.List:
		hint, cons := "", ""
		if s, ok := t.Elem.(*schema.Scalar); ok {
			cons, hint = constraintSummary(s), s.Hint
		}
		row(b, path, schema.Describe(t), required, cons, "", hint)
		if m, ok := t.Elem.(*schema.Mapping); ok {
			writeMapping(b, path+"[]", m)
		}
	default:
		row(b, path, schema.Describe(n), required, "", "", "")
	}
}

func row(b *strings.Builder, path, typ string, required bool, constraints, def, hint string) {
	req := "no"
	if required {
		req = "yes"
	}
	fmt.Fprintf(b, "| `%s` | %s | %s | %s | %s | %s |\n",
		cell(path), cell(typ), req, cell(constraints), cell(def), cell(hint))
}

// cell keeps a value from breaking the table layout.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func joinField(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func constraintSummary(s *schema.Scalar) string {
	var parts []string
	c := s.Constraints
	if c.MinLength != nil {
		parts = append(parts, fmt.Sprintf("minLength %d", *c.MinLength))
	}
	if c.MaxLength != nil {
		parts = append(parts, fmt.Sprintf("maxLength %d", *c.MaxLength))
	}
	if c.Min != nil {
		parts = append(parts, "min "+strconv.FormatFloat(*c.Min, 'g', -1, 64))
	}
	if c.Max != nil {
		parts = append(parts, "max "+strconv.FormatFloat(*c.Max, 'g', -1, 64))
	}
	if c.Precision != nil {
		parts = append(parts, fmt.Sprintf("precision %d", *c.Precision))
	}
	if c.Match != nil {
		parts = append(parts, fmt.Sprintf("match `%s`", c.Match.Source()))
	}
	return strings.Join(parts, ", ")
}

func defaultText(s *schema.Scalar) string {
	if s.Default == nil {
		return ""
	}
	return "`" + s.Default.Text() + "`"
}
