// Package yamldoc converts YAML bytes to and from document trees.
//
// It is the YAML face of the engine: schema sources and config documents
// both enter through Decode, which preserves key order and carries custom
// tags (!string, !one_of, ...) verbatim into the tree. Encode renders a
// tree back to YAML, tags included, so normalized output remains a valid
// input.
package yamldoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oneconfig/oneconfig/pkg/document"
)

// maxDepth bounds the node walk. Documents nested this deep are rejected
// rather than risking the stack; the validator applies its own, much
// smaller limit on top.
const maxDepth = 2048

// Decode parses a single YAML document into a tree. Mapping key order is
// preserved, custom tags are kept verbatim, and YAML merge keys (<<) are
// expanded. Duplicate mapping keys are an error.
func Decode(data []byte) (document.Value, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty stream is the null document.
			return document.Null(), nil
		}
		return document.Value{}, fmt.Errorf("failed to parse yaml: %w", err)
	}
	switch err := dec.Decode(new(yaml.Node)); {
	case err == nil:
		return document.Value{}, errors.New("failed to parse yaml: expected a single document")
	case !errors.Is(err, io.EOF):
		return document.Value{}, fmt.Errorf("failed to parse yaml: %w", err)
	}
	return walk(&root, 0)
}

func walk(n *yaml.Node, depth int) (document.Value, error) {
	if depth > maxDepth {
		return document.Value{}, fmt.Errorf("yaml document nests deeper than %d levels", maxDepth)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return document.Null(), nil
		}
		return walk(n.Content[0], depth)
	case yaml.AliasNode:
		// Aliases are expanded in place; the depth guard breaks cycles.
		return walk(n.Alias, depth+1)
	case yaml.SequenceNode:
		out := document.NewSequence()
		for _, item := range n.Content {
			child, err := walk(item, depth+1)
			if err != nil {
				return document.Value{}, err
			}
			out.Append(child)
		}
		return withTag(out, n.Tag), nil
	case yaml.MappingNode:
		return walkMapping(n, depth)
	case yaml.ScalarNode:
		return walkScalar(n), nil
	default:
		return document.Value{}, fmt.Errorf("line %d: unsupported yaml node", n.Line)
	}
}

func walkMapping(n *yaml.Node, depth int) (document.Value, error) {
	// Explicit keys always win over merged ones, no matter where the merge
	// key sits, so collect them up front.
	explicit := make(map[string]bool, len(n.Content)/2)
	for i := 0; i < len(n.Content)-1; i += 2 {
		if n.Content[i].Tag != "!!merge" {
			explicit[n.Content[i].Value] = true
		}
	}

	out := document.NewMapping()
	for i := 0; i < len(n.Content)-1; i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if key.Tag == "!!merge" {
			if err := mergeInto(&out, val, explicit, depth); err != nil {
				return document.Value{}, err
			}
			continue
		}
		if _, dup := out.Get(key.Value); dup && explicit[key.Value] {
			return document.Value{}, fmt.Errorf("line %d: duplicate key %q", key.Line, key.Value)
		}
		child, err := walk(val, depth+1)
		if err != nil {
			return document.Value{}, err
		}
		out.Put(key.Value, child)
	}
	return withTag(out, n.Tag), nil
}

// mergeInto expands one merge key value, a mapping or a sequence of
// mappings, into dst. Earlier sources win among themselves; keys declared
// explicitly on the host mapping are never touched.
func mergeInto(dst *document.Value, val *yaml.Node, explicit map[string]bool, depth int) error {
	if val.Kind == yaml.AliasNode {
		return mergeInto(dst, val.Alias, explicit, depth)
	}
	if val.Kind == yaml.SequenceNode {
		for _, item := range val.Content {
			if err := mergeInto(dst, item, explicit, depth); err != nil {
				return err
			}
		}
		return nil
	}
	if val.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: merge key takes a mapping or a sequence of mappings", val.Line)
	}
	src, err := walk(val, depth+1)
	if err != nil {
		return err
	}
	for _, key := range src.Keys() {
		if explicit[key] {
			continue
		}
		if _, placed := dst.Get(key); placed {
			continue
		}
		child, _ := src.Get(key)
		dst.Put(key, child)
	}
	return nil
}

func walkScalar(n *yaml.Node) document.Value {
	switch n.Tag {
	case "!!null":
		return document.Null()
	case "!!bool":
		b, err := strconv.ParseBool(strings.ToLower(n.Value))
		if err != nil {
			// YAML 1.1 forms like yes/on that ParseBool does not know.
			b = isTruthy(n.Value)
		}
		return document.NewBool(b)
	case "!!int":
		return document.NewScalar(document.ScalarInt, normalizeInt(n.Value))
	case "!!float":
		return document.NewScalar(document.ScalarFloat, normalizeFloat(n.Value))
	case "!!str":
		return document.NewString(n.Value)
	}

	if strings.HasPrefix(n.Tag, "!!") {
		// Remaining core tags (!!timestamp, !!binary) carry text payloads.
		return document.NewString(n.Value)
	}

	// Custom tag: the resolver left the payload untyped, so classify the
	// raw text ourselves. A plain empty payload means "no payload".
	quoted := n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0
	v := resolveScalar(n.Value, quoted)
	return withTag(v, n.Tag)
}

// resolveScalar classifies bare text the way the YAML core schema would.
// Quoted payloads are always strings.
func resolveScalar(text string, quoted bool) document.Value {
	if quoted {
		return document.NewString(text)
	}
	switch text {
	case "", "~", "null", "Null", "NULL":
		return document.Null()
	case "true", "True", "TRUE":
		return document.NewBool(true)
	case "false", "False", "FALSE":
		return document.NewBool(false)
	}
	if _, err := strconv.ParseInt(text, 0, 64); err == nil {
		return document.NewScalar(document.ScalarInt, normalizeInt(text))
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return document.NewScalar(document.ScalarFloat, text)
	}
	return document.NewString(text)
}

// normalizeInt rewrites hex, octal and binary literals in decimal so the
// tree carries one canonical integer form. Base 0 also reads 1.1-style
// leading-zero octals the way the resolver classified them.
func normalizeInt(text string) string {
	if n, err := strconv.ParseInt(text, 0, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return text
}

// normalizeFloat keeps the written form when Go can parse it, so decimal
// places survive for precision checks, and rewrites YAML-only spellings
// like .inf and .nan.
func normalizeFloat(text string) string {
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return text
	}
	cleaned := strings.Replace(text, ".inf", "inf", 1)
	cleaned = strings.Replace(cleaned, ".Inf", "inf", 1)
	cleaned = strings.Replace(cleaned, ".INF", "inf", 1)
	cleaned = strings.Replace(cleaned, ".nan", "nan", 1)
	cleaned = strings.Replace(cleaned, ".NaN", "nan", 1)
	cleaned = strings.Replace(cleaned, ".NAN", "nan", 1)
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return text
}

func isTruthy(text string) bool {
	switch strings.ToLower(text) {
	case "y", "yes", "on", "true":
		return true
	}
	return false
}

func withTag(v document.Value, tag string) document.Value {
	if tag == "" || strings.HasPrefix(tag, "!!") {
		return v
	}
	return v.WithTag(tag)
}

// Encode renders a tree as YAML. Custom tags are written back out, so a
// decoded document re-encodes to an equivalent one.
func Encode(v document.Value) ([]byte, error) {
	node, err := buildNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func buildNode(v document.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case document.KindMapping:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			cn, err := buildNode(child)
			if err != nil {
				return nil, err
			}
			kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
			n.Content = append(n.Content, kn, cn)
		}
		return tagNode(n, v.Tag()), nil
	case document.KindSequence:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			cn, err := buildNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, cn)
		}
		return tagNode(n, v.Tag()), nil
	case document.KindScalar:
		return buildScalar(v)
	default:
		return nil, errors.New("cannot encode an invalid value")
	}
}

func buildScalar(v document.Value) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: v.Text()}
	switch v.Scalar() {
	case document.ScalarNull:
		n.Tag, n.Value = "!!null", "null"
	case document.ScalarBool:
		n.Tag = "!!bool"
	case document.ScalarInt:
		n.Tag = "!!int"
	case document.ScalarFloat:
		n.Tag = "!!float"
	default:
		// Let the library pick quoting for strings that would otherwise
		// resolve as numbers or booleans.
		if err := n.Encode(v.Text()); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
	}
	if tag := v.Tag(); tag != "" {
		if v.Scalar() == document.ScalarString && v.Text() == "" {
			// A plain empty payload under a custom tag reads back as null;
			// quote to keep the empty string.
			n.Style = yaml.DoubleQuotedStyle
		}
		if v.Scalar() == document.ScalarNull {
			// "name: !string" rather than "name: !string null".
			n.Value = ""
		}
		return tagNode(n, tag), nil
	}
	return n, nil
}

func tagNode(n *yaml.Node, tag string) *yaml.Node {
	if tag != "" {
		n.Tag = tag
		n.Style |= yaml.TaggedStyle
	}
	return n
}
