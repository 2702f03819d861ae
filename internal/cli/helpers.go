package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"

	"github.com/oneconfig/oneconfig"
	"github.com/oneconfig/oneconfig/internal/report"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

// ParseLevel maps a --log-level flag value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// FormatForPath guesses the document format from a file extension.
// Anything unrecognized is treated as YAML, the native format.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".jsonc":
		return "jsonc"
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}

// ColorRenderer returns a report renderer bound to the terminal's color
// profile.
func ColorRenderer() oneconfig.ReportRenderer {
	profile := termenv.ColorProfile()
	return func(res *schema.Result) (string, error) {
		return report.Colorize(res, profile), nil
	}
}
