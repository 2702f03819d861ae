package document

import (
	"fmt"
	"strconv"
	"strings"
)

type pathStep struct {
	key     string
	index   int
	isIndex bool
}

// Path addresses a node inside a configuration tree as a chain of mapping
// keys and sequence indices. The zero Path is the root. Paths are value
// types; Key and Index return extended copies, so a Path held by one caller
// is never mutated by another.
type Path struct {
	steps []pathStep
}

// Key returns p extended by a mapping key step.
func (p Path) Key(name string) Path {
	steps := make([]pathStep, len(p.steps), len(p.steps)+1)
	copy(steps, p.steps)
	return Path{steps: append(steps, pathStep{key: name})}
}

// Index returns p extended by a sequence index step.
func (p Path) Index(i int) Path {
	steps := make([]pathStep, len(p.steps), len(p.steps)+1)
	copy(steps, p.steps)
	return Path{steps: append(steps, pathStep{index: i, isIndex: true})}
}

// IsRoot reports whether the path has no steps.
func (p Path) IsRoot() bool { return len(p.steps) == 0 }

// Len returns the number of steps.
func (p Path) Len() int { return len(p.steps) }

// String renders the path in dotted form: keys joined with ".", indices in
// brackets, for example "website.mirrors[2].url". The root renders as "$".
func (p Path) String() string {
	if len(p.steps) == 0 {
		return "$"
	}
	return p.prefix(len(p.steps) - 1)
}

// prefix renders the path up to and including step i.
func (p Path) prefix(i int) string {
	var b strings.Builder
	for j := 0; j <= i && j < len(p.steps); j++ {
		s := p.steps[j]
		if s.isIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.index))
			b.WriteByte(']')
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.key)
	}
	return b.String()
}

// ParsePath parses the dotted form produced by String. Keys may contain any
// character except ".", "[" and "]". "$" and "" both parse as the root.
func ParsePath(s string) (Path, error) {
	if s == "" || s == "$" {
		return Path{}, nil
	}
	var p Path
	rest := s
	for rest != "" {
		switch {
		case rest[0] == '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return Path{}, fmt.Errorf("document: path %q: unterminated index", s)
			}
			n, err := strconv.Atoi(rest[1:end])
			if err != nil || n < 0 {
				return Path{}, fmt.Errorf("document: path %q: bad index %q", s, rest[1:end])
			}
			p = p.Index(n)
			rest = rest[end+1:]
		case rest[0] == '.':
			if p.IsRoot() {
				return Path{}, fmt.Errorf("document: path %q: leading separator", s)
			}
			rest = rest[1:]
			if rest == "" {
				return Path{}, fmt.Errorf("document: path %q: trailing separator", s)
			}
		default:
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return Path{}, fmt.Errorf("document: path %q: empty key", s)
			}
			p = p.Key(rest[:end])
			rest = rest[end:]
		}
	}
	return p, nil
}
