// Package testutils carries small helpers shared by tests across the
// module. Each helper fails the test immediately on error so callers
// stay linear.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oneconfig/oneconfig/pkg/adapters/yamldoc"
	"github.com/oneconfig/oneconfig/pkg/document"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

// ParseYAML decodes YAML source into a document tree.
func ParseYAML(t *testing.T, src string) document.Value {
	t.Helper()

	doc, err := yamldoc.Decode([]byte(src))
	require.NoError(t, err, "failed to parse yaml")
	return doc
}

// CompileSchema parses and compiles YAML schema source into a rule tree.
func CompileSchema(t *testing.T, src string) schema.Node {
	t.Helper()

	node, err := schema.Compile(ParseYAML(t, src))
	require.NoError(t, err, "failed to compile schema")
	return node
}

// ValidateYAML compiles the schema, parses the document and validates
// one against the other.
func ValidateYAML(t *testing.T, schemaSrc, docSrc string) *schema.Result {
	t.Helper()

	return schema.Validate(CompileSchema(t, schemaSrc), ParseYAML(t, docSrc))
}

// WriteFile creates a file under dir with the given contents and
// returns its path.
func WriteFile(t *testing.T, dir, name, contents string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}
