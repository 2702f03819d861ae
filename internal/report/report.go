// Package report renders validation outcomes for terminals and machines,
// and generates the human reference document for a schema.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/oneconfig/oneconfig/pkg/schema"
)

// Summary is the machine-readable form of a validation outcome.
type Summary struct {
	Valid      bool            `json:"valid"`
	Violations []schema.Record `json:"violations,omitempty"`
}

// Text renders one violation per line. A valid result renders as the
// empty string.
func Text(res *schema.Result) string {
	if res.Valid() {
		return ""
	}
	var b strings.Builder
	for _, v := range res.Violations {
		fmt.Fprintf(&b, "%s: %s [%s]\n", v.Path, v.Message, v.Kind)
	}
	return b.String()
}

// Colorize renders like Text with the path highlighted and the kind
// faint. The profile decides how much color the terminal gets;
// termenv.Ascii yields plain text.
func Colorize(res *schema.Result, profile termenv.Profile) string {
	if res.Valid() {
		return ""
	}
	var b strings.Builder
	for _, v := range res.Violations {
		path := profile.String(v.Path.String()).Foreground(profile.Color("#f87171")).Bold()
		kind := profile.String("[" + string(v.Kind) + "]").Foreground(profile.Color("#94a3b8")).Faint()
		fmt.Fprintf(&b, "%s: %s %s\n", path, v.Message, kind)
	}
	return b.String()
}

// JSON renders the outcome as an indented JSON report.
func JSON(res *schema.Result) ([]byte, error) {
	out, err := json.MarshalIndent(Summary{Valid: res.Valid(), Violations: res.Records()}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return append(out, '\n'), nil
}
