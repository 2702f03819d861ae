// Package graph renders compiled schemas as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oneconfig/oneconfig/pkg/schema"
)

// GenerateMermaid produces Mermaid flowchart syntax for a compiled schema.
// It applies semantic shapes:
// - Root: ((Circle))
// - Mapping: [Rectangle]
// - List: [[Subroutine]]
// - Choice (one_of / any_of): {Rhombus}
// Optional fields and open-ended mappings hang from dotted arrows.
func GenerateMermaid(root schema.Node) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    root((\"schema\"))\n")

	g := generator{sb: &sb}
	if m, ok := root.(*schema.Mapping); ok {
		g.fields(m, "root")
	} else {
		g.edge("root", "root_value", "-->")
		g.walk(root, "root_value", "value")
	}
	return sb.String()
}

type generator struct {
	sb *strings.Builder
}

func (g generator) walk(n schema.Node, id, name string) {
	switch t := n.(type) {
	case *schema.Scalar:
		label := fmt.Sprintf("%s : %s", name, t.Type)
		if cons := constraintText(t.Constraints); cons != "" {
			// Annotate the leaf with its constraints on a second line.
			label = fmt.Sprintf("%s <br/> %s", label, cons)
		}
		if t.Default != nil {
			label = fmt.Sprintf("%s <br/> = %s", label, t.Default.Text())
		}
		g.node(id, "[", "]", label)
	case *schema.Optional:
		// The parent already drew the dotted arrow; the shape is the inner's.
		g.walk(t.Inner, id, name)
	case *schema.List:
		g.node(id, "[[", "]]", name+"[]")
		elemID := id + "_elem"
		g.edge(id, elemID, "-->")
		g.walk(t.Elem, elemID, "element")
	case *schema.Mapping:
		g.node(id, "[", "]", name)
		g.fields(t, id)
	case *schema.OneOf:
		g.node(id, "{", "}", name+" : one of")
		g.alternatives(t.Alternatives, id)
	case *schema.AnyOf:
		g.node(id, "{", "}", name+" : any of")
		g.alternatives(t.Alternatives, id)
	}
}

func (g generator) fields(m *schema.Mapping, id string) {
	for _, f := range m.Fields {
		childID := id + "_" + sanitizeMermaidID(f.Name)
		arrow := "-->"
		if !f.Required() {
			arrow = "-.->"
		}
		g.edge(id, childID, arrow)
		g.walk(f.Schema, childID, f.Name)
	}
	if m.OpenEnded {
		openID := id + "_open"
		g.edge(id, openID, "-.->")
		g.node(openID, "[", "]", "...")
	}
}

func (g generator) alternatives(alts []schema.Node, id string) {
	for i, alt := range alts {
		altID := fmt.Sprintf("%s_alt%d", id, i+1)
		// Escape double quotes in the description for the Mermaid label.
		desc := strings.ReplaceAll(schema.Describe(alt), "\"", "'")
		g.edge(id, altID, fmt.Sprintf("-- \"%s\" -->", desc))
		g.walk(alt, altID, fmt.Sprintf("option %d", i+1))
	}
}

func (g generator) node(id, opener, closer, label string) {
	safe := strings.ReplaceAll(label, "\"", "'")
	g.sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, safe, closer))
}

func (g generator) edge(from, to, arrow string) {
	g.sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, to))
}

// constraintText condenses the constraints of a scalar into one line.
func constraintText(c schema.Constraints) string {
	var parts []string
	switch {
	case c.Min != nil && c.Max != nil:
		parts = append(parts, num(*c.Min)+".."+num(*c.Max))
	case c.Min != nil:
		parts = append(parts, ">= "+num(*c.Min))
	case c.Max != nil:
		parts = append(parts, "<= "+num(*c.Max))
	}
	switch {
	case c.MinLength != nil && c.MaxLength != nil:
		parts = append(parts, fmt.Sprintf("len %d..%d", *c.MinLength, *c.MaxLength))
	case c.MinLength != nil:
		parts = append(parts, fmt.Sprintf("len >= %d", *c.MinLength))
	case c.MaxLength != nil:
		parts = append(parts, fmt.Sprintf("len <= %d", *c.MaxLength))
	}
	if c.Precision != nil {
		parts = append(parts, fmt.Sprintf("precision %d", *c.Precision))
	}
	if c.Match != nil {
		parts = append(parts, "~ "+c.Match.Source())
	}
	return strings.Join(parts, ", ")
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return strings.ReplaceAll(s, " ", "_")
}
