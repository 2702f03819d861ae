package oneconfig

import _ "embed"

// Version is the release version, embedded from the VERSION file at
// the repository root. It carries the file's trailing newline, so
// printers should trim it.
//
//go:embed VERSION
var Version string
