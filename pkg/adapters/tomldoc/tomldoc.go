// Package tomldoc converts TOML bytes into document trees.
//
// TOML is typed, so integers and decimals arrive pre-classified. The library
// decodes into Go maps, which lose declaration order; the metadata key list
// puts it back. One caveat: the raw text of floats is not recoverable, so a
// value written 0.50 carries one decimal place in the tree, not two.
package tomldoc

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/oneconfig/oneconfig/pkg/document"
)

// pathSep joins key segments for rank lookups. Unit separator cannot occur
// in TOML keys.
const pathSep = "\x1f"

// Decode parses TOML into a tree. Mapping keys follow their declaration
// order in the source.
func Decode(data []byte) (document.Value, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return document.Value{}, fmt.Errorf("failed to parse toml: %w", err)
	}

	ranks := make(map[string]int, len(md.Keys()))
	for i, key := range md.Keys() {
		joined := strings.Join(key, pathSep)
		if _, seen := ranks[joined]; !seen {
			ranks[joined] = i
		}
	}
	return fromGo(raw, "", ranks), nil
}

func fromGo(x any, prefix string, ranks map[string]int) document.Value {
	switch t := x.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sortKeys(keys, prefix, ranks)
		out := document.NewMapping()
		for _, k := range keys {
			out.Put(k, fromGo(t[k], childPath(prefix, k), ranks))
		}
		return out
	case []map[string]any:
		// Array of tables: elements share one path, so their field order is
		// the union order across all elements.
		out := document.NewSequence()
		for _, item := range t {
			out.Append(fromGo(item, prefix, ranks))
		}
		return out
	case []any:
		out := document.NewSequence()
		for _, item := range t {
			out.Append(fromGo(item, prefix, ranks))
		}
		return out
	case string:
		return document.NewString(t)
	case bool:
		return document.NewBool(t)
	case int64:
		return document.NewInt(t)
	case float64:
		return document.NewFloat(t)
	case time.Time:
		return document.NewString(formatTime(t))
	default:
		return document.NewString(fmt.Sprintf("%v", t))
	}
}

func sortKeys(keys []string, prefix string, ranks map[string]int) {
	sort.SliceStable(keys, func(i, j int) bool {
		ri, iKnown := ranks[childPath(prefix, keys[i])]
		rj, jKnown := ranks[childPath(prefix, keys[j])]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
}

func childPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + pathSep + key
}

// formatTime renders date-only values without a redundant midnight clock.
func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
