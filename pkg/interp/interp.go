// Package interp expands !ref scalars inside a document.
//
// A scalar tagged !ref holds a pattern whose {dotted.path} placeholders
// are resolved against the document's own root:
//
//	project:
//	  name: oneconfig
//	greeting: !ref "welcome to {project.name|title}"
//
// Conversions upper, lower and title may follow the path after a pipe.
// Doubled braces ({{ and }}) escape literal braces. A pattern that is
// exactly one placeholder with no conversion adopts the referenced
// subtree as a whole, so a !ref can duplicate a mapping or a sequence,
// not just splice text.
//
// References chain: a placeholder may point at another !ref scalar, or
// at a subtree that contains one, and sees its resolved form. Circular
// chains are an error.
package interp

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/oneconfig/oneconfig/pkg/document"
)

// Tag marks a scalar as an interpolation pattern.
const Tag = "!ref"

// Resolve returns a copy of doc with every !ref scalar expanded. The
// input tree is left untouched.
func Resolve(doc document.Value) (document.Value, error) {
	r := &resolver{
		root:   doc,
		memo:   make(map[string]document.Value),
		active: make(map[string]bool),
	}
	return r.value(doc, document.Path{})
}

type resolver struct {
	root document.Value

	// memo holds finished subtrees by path, so a target referenced from
	// several patterns resolves once. active marks paths currently being
	// resolved; re-entering one means the references form a cycle.
	memo   map[string]document.Value
	active map[string]bool
}

func (r *resolver) value(v document.Value, path document.Path) (document.Value, error) {
	key := path.String()
	if done, ok := r.memo[key]; ok {
		return done, nil
	}
	if r.active[key] {
		return document.Value{}, fmt.Errorf("circular reference through %s", path)
	}

	switch v.Kind() {
	case document.KindMapping:
		r.active[key] = true
		defer delete(r.active, key)
		out := document.NewMapping()
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			res, err := r.value(child, path.Key(k))
			if err != nil {
				return document.Value{}, err
			}
			out.Put(k, res)
		}
		if tag := v.Tag(); tag != "" {
			out = out.WithTag(tag)
		}
		r.memo[key] = out
		return out, nil

	case document.KindSequence:
		r.active[key] = true
		defer delete(r.active, key)
		out := document.NewSequence()
		for i, item := range v.Items() {
			res, err := r.value(item, path.Index(i))
			if err != nil {
				return document.Value{}, err
			}
			out.Append(res)
		}
		if tag := v.Tag(); tag != "" {
			out = out.WithTag(tag)
		}
		r.memo[key] = out
		return out, nil

	case document.KindScalar:
		if v.Tag() != Tag {
			return v, nil
		}
		r.active[key] = true
		defer delete(r.active, key)
		out, err := r.pattern(v, path)
		if err != nil {
			return document.Value{}, err
		}
		r.memo[key] = out
		return out, nil

	default:
		return v, nil
	}
}

func (r *resolver) pattern(v document.Value, path document.Path) (document.Value, error) {
	if v.Scalar() != document.ScalarString {
		return document.Value{}, fmt.Errorf("%s: !ref takes a string pattern, found %s", path, describe(v))
	}
	segs, err := parsePattern(v.Text())
	if err != nil {
		return document.Value{}, fmt.Errorf("%s: %w", path, err)
	}

	// A bare placeholder adopts the referenced subtree; a conversion
	// forces text rendering.
	if len(segs) == 1 && segs[0].path != "" {
		target, err := r.target(segs[0].path, path)
		if err != nil {
			return document.Value{}, err
		}
		if segs[0].conv == "" {
			return target.Clone(), nil
		}
		text, err := renderText(target, segs[0].path, path)
		if err != nil {
			return document.Value{}, err
		}
		text, err = convert(text, segs[0].conv)
		if err != nil {
			return document.Value{}, fmt.Errorf("%s: %w", path, err)
		}
		return document.NewString(text), nil
	}

	var b strings.Builder
	for _, seg := range segs {
		if seg.path == "" {
			b.WriteString(seg.literal)
			continue
		}
		target, err := r.target(seg.path, path)
		if err != nil {
			return document.Value{}, err
		}
		text, err := renderText(target, seg.path, path)
		if err != nil {
			return document.Value{}, err
		}
		if text, err = convert(text, seg.conv); err != nil {
			return document.Value{}, fmt.Errorf("%s: %w", path, err)
		}
		b.WriteString(text)
	}
	return document.NewString(b.String()), nil
}

// target resolves the referenced path against the root, expanding any
// references the target itself contains.
func (r *resolver) target(ref string, at document.Path) (document.Value, error) {
	p, err := document.ParsePath(ref)
	if err != nil {
		return document.Value{}, fmt.Errorf("%s: bad reference path %q: %w", at, ref, err)
	}
	raw, ok := r.root.Lookup(p)
	if !ok {
		return document.Value{}, fmt.Errorf("%s: reference %q points at nothing", at, ref)
	}
	return r.value(raw, p)
}

type segment struct {
	literal string
	path    string
	conv    string
}

func parsePattern(pattern string) ([]segment, error) {
	var segs []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		switch pattern[i] {
		case '{':
			if i+1 < len(pattern) && pattern[i+1] == '{' {
				lit.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(pattern[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unterminated reference in %q", pattern)
			}
			body := pattern[i+1 : i+end]
			if body == "" {
				return nil, fmt.Errorf("empty reference in %q", pattern)
			}
			path, conv := body, ""
			if pipe := strings.IndexByte(body, '|'); pipe >= 0 {
				path, conv = body[:pipe], body[pipe+1:]
				if conv == "" {
					return nil, fmt.Errorf("empty conversion in %q", pattern)
				}
			}
			flush()
			segs = append(segs, segment{path: path, conv: conv})
			i += end + 1
		case '}':
			if i+1 < len(pattern) && pattern[i+1] == '}' {
				lit.WriteByte('}')
				i += 2
				continue
			}
			return nil, fmt.Errorf("unmatched '}' in %q", pattern)
		default:
			lit.WriteByte(pattern[i])
			i++
		}
	}
	flush()
	return segs, nil
}

func renderText(v document.Value, ref string, at document.Path) (string, error) {
	if v.Kind() != document.KindScalar || v.IsNull() {
		return "", fmt.Errorf("%s: reference %q resolves to %s, which has no text form", at, ref, describe(v))
	}
	return v.Text(), nil
}

func convert(text, conv string) (string, error) {
	switch conv {
	case "":
		return text, nil
	case "upper":
		return strings.ToUpper(text), nil
	case "lower":
		return strings.ToLower(text), nil
	case "title":
		return cases.Title(language.Und).String(text), nil
	default:
		return "", fmt.Errorf("unknown conversion %q", conv)
	}
}

func describe(v document.Value) string {
	switch v.Kind() {
	case document.KindMapping:
		return "a mapping"
	case document.KindSequence:
		return "a sequence"
	case document.KindScalar:
		if v.IsNull() {
			return "null"
		}
		return fmt.Sprintf("%q", v.Text())
	default:
		return "nothing"
	}
}
