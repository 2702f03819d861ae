package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/oneconfig/oneconfig"
	"github.com/oneconfig/oneconfig/internal/report"
	"github.com/oneconfig/oneconfig/pkg/observability"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

// ValidateFiles validates each file against the checker, writing a report
// for every invalid document to out. The document format is taken from each
// file's extension. A nil render falls back to the plain text report.
func ValidateFiles(checker *oneconfig.Checker, paths []string, out io.Writer, render oneconfig.ReportRenderer) (observability.Summary, error) {
	if render == nil {
		render = func(res *schema.Result) (string, error) {
			return report.Text(res), nil
		}
	}

	agg := observability.NewAggregator()
	for _, path := range paths {
		res, err := validateFile(checker, path)
		if err != nil {
			return observability.Summary{}, err
		}
		agg.Add(path, res)
		if res.Valid() {
			continue
		}
		rendered, err := render(res)
		if err != nil {
			return observability.Summary{}, fmt.Errorf("failed to render report for %s: %w", path, err)
		}
		fmt.Fprintf(out, "%s:\n%s\n", path, rendered)
	}
	return agg.Snapshot(), nil
}

func validateFile(checker *oneconfig.Checker, path string) (*schema.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := oneconfig.DecodeDocument(FormatForPath(path), data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	res, err := checker.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
