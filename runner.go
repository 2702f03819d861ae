package oneconfig

import (
	"errors"
	"fmt"
	"io"

	"github.com/oneconfig/oneconfig/internal/report"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

// Runner reads one document, validates it and writes the violation
// report using the provided IO. This allows for easy testing and
// integration with different frontends (CLI, CI, editors).
type Runner struct {
	Input  io.Reader
	Output io.Writer

	// Format names the document syntax: yaml (default), json, jsonc
	// or toml.
	Format string

	// Renderer turns the result into the text written to Output. This
	// lets a frontend colorize or reformat the report without coupling
	// this package to a terminal library. Nil means the plain text
	// report.
	Renderer ReportRenderer
}

// ReportRenderer transforms a validation result into report text.
type ReportRenderer func(*schema.Result) (string, error)

// NewRunner creates a Runner with no IO attached. Callers set Input
// and Output explicitly, typically os.Stdin and os.Stdout.
func NewRunner() *Runner {
	return &Runner{}
}

// Run validates the document on Input against the checker and writes
// the report to Output. The result is returned so callers can pick an
// exit code; an invalid document is not an error.
func (r *Runner) Run(checker *Checker) (*schema.Result, error) {
	if r.Input == nil {
		return nil, errors.New("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return nil, errors.New("output writer must be set (use os.Stdout)")
	}

	data, err := io.ReadAll(r.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := DecodeDocument(r.Format, data)
	if err != nil {
		return nil, err
	}
	res, err := checker.Validate(doc)
	if err != nil {
		return nil, err
	}

	text, err := r.render(res)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(r.Output, text); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return res, nil
}

func (r *Runner) render(res *schema.Result) (string, error) {
	if r.Renderer != nil {
		return r.Renderer(res)
	}
	return report.Text(res), nil
}
