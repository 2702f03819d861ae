package cli_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneconfig/oneconfig/internal/cli"
	"github.com/oneconfig/oneconfig/internal/testutils"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := cli.ParseLevel(tt.in)
		require.NoError(t, err, "level %q", tt.in)
		assert.Equal(t, tt.want, got, "level %q", tt.in)
	}

	_, err := cli.ParseLevel("loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown log level "loud"`)
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"config.yaml", "yaml"},
		{"config.yml", "yaml"},
		{"deploy/app.JSON", "json"},
		{"settings.jsonc", "jsonc"},
		{"Cargo.toml", "toml"},
		{"Procfile", "yaml"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cli.FormatForPath(tt.path), "path %q", tt.path)
	}
}

func TestColorRenderer(t *testing.T) {
	res := testutils.ValidateYAML(t, "name: !string\n", "name: 7\n")

	got, err := cli.ColorRenderer()(res)
	require.NoError(t, err)
	assert.Contains(t, got, "expected string, found integer")
}
