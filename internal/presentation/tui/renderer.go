// Package tui holds the terminal presentation pieces of the CLI: the
// startup banner and the markdown renderer used for schema references.
package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// Schema references are plain markdown, so callers that write to a pipe
// can skip the renderer and emit the raw text instead.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // detect light/dark background
	)
	if err != nil {
		// No usable terminal profile. Hand the markdown back untouched.
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}
	return r.Render
}
