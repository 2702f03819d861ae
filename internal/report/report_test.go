package report_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/oneconfig/oneconfig/internal/report"
	"github.com/oneconfig/oneconfig/pkg/adapters/yamldoc"
	"github.com/oneconfig/oneconfig/pkg/schema"
)

func validateYAML(t *testing.T, schemaSrc, docSrc string) *schema.Result {
	t.Helper()
	sdoc, err := yamldoc.Decode([]byte(schemaSrc))
	if err != nil {
		t.Fatalf("Decode schema: %v", err)
	}
	node, err := schema.Compile(sdoc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	doc, err := yamldoc.Decode([]byte(docSrc))
	if err != nil {
		t.Fatalf("Decode doc: %v", err)
	}
	return schema.Validate(node, doc)
}

const reportSchema = "host: !string\nport: !integer\n  min: 1\n  max: 65535\n"

func TestText(t *testing.T) {
	res := validateYAML(t, reportSchema, "host: db\nport: 99999\n")
	out := report.Text(res)

	for _, want := range []string{"port", "exceeds the maximum 65535", "[constraint_failed]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Text output missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Text output must end with a newline")
	}

	valid := validateYAML(t, reportSchema, "host: db\nport: 80\n")
	if got := report.Text(valid); got != "" {
		t.Errorf("Text(valid) = %q, want empty", got)
	}
}

func TestColorize(t *testing.T) {
	res := validateYAML(t, reportSchema, "host: db\nport: 99999\n")

	plain := report.Colorize(res, termenv.Ascii)
	if strings.Contains(plain, "\x1b[") {
		t.Errorf("Ascii profile emitted escape codes:\n%q", plain)
	}
	if !strings.Contains(plain, "port: value 99999 exceeds the maximum 65535") {
		t.Errorf("unexpected plain output:\n%s", plain)
	}

	color := report.Colorize(res, termenv.TrueColor)
	if !strings.Contains(color, "\x1b[") {
		t.Error("TrueColor profile emitted no escape codes")
	}
}

func TestJSON(t *testing.T) {
	res := validateYAML(t, reportSchema, "port: 99999\n")
	out, err := report.JSON(res)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var got report.Summary
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Valid {
		t.Error("Valid = true, want false")
	}
	if len(got.Violations) != 2 {
		t.Fatalf("Violations = %d, want 2 (missing host, port out of range)", len(got.Violations))
	}
	if got.Violations[0].Path != "host" || got.Violations[0].Kind != schema.MissingField {
		t.Errorf("first violation = %+v", got.Violations[0])
	}

	valid := validateYAML(t, reportSchema, "host: db\nport: 80\n")
	out, err = report.JSON(valid)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if strings.Contains(string(out), "violations") {
		t.Errorf("valid report should omit violations:\n%s", out)
	}
}

func TestSchemaMarkdown(t *testing.T) {
	src := `
name: !string
  minLength: 1
  hint: project name
channel: !string
  default: stable
  optional: true
price: !decimal
  min: 0
  precision: 2
mirrors: !list
  - !url
owner:
  email: !email
meta:
  ...:
`
	sdoc, err := yamldoc.Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	node, err := schema.Compile(sdoc)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	out := report.SchemaMarkdown("Project configuration", node)
	contains := []string{
		"# Project configuration",
		"| Field | Type | Required | Constraints | Default | Hint |",
		"| `name` | string | yes | minLength 1 |  | project name |",
		"| `channel` | string | no |  | `stable` |  |",
		"| `price` | decimal | yes | min 0, precision 2 |",
		"| `mirrors` | list of url | yes |",
		"| `owner` | mapping | yes |",
		"| `owner.email` | email | yes |",
		"| `meta.*` | any | no | undeclared fields pass through |",
	}
	for _, want := range contains {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
}
