package interp_test

import (
	"strings"
	"testing"

	"github.com/oneconfig/oneconfig/pkg/adapters/yamldoc"
	"github.com/oneconfig/oneconfig/pkg/document"
	"github.com/oneconfig/oneconfig/pkg/interp"
)

func parse(t *testing.T, src string) document.Value {
	t.Helper()
	doc, err := yamldoc.Decode([]byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return doc
}

func resolve(t *testing.T, src string) document.Value {
	t.Helper()
	out, err := interp.Resolve(parse(t, src))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return out
}

func lookup(t *testing.T, doc document.Value, path string) document.Value {
	t.Helper()
	p, err := document.ParsePath(path)
	if err != nil {
		t.Fatalf("ParsePath(%q): %v", path, err)
	}
	v, ok := doc.Lookup(p)
	if !ok {
		t.Fatalf("Lookup(%q): not found", path)
	}
	return v
}

func TestResolveTextPlaceholders(t *testing.T) {
	out := resolve(t, `
project:
  name: oneconfig
  version: "1.2.0"
banner: !ref "{project.name} v{project.version}"
`)
	banner := lookup(t, out, "banner")
	if got := banner.Text(); got != "oneconfig v1.2.0" {
		t.Errorf("banner = %q, want %q", got, "oneconfig v1.2.0")
	}
	if banner.Tag() != "" {
		t.Errorf("resolved scalar kept tag %q", banner.Tag())
	}
}

func TestResolveConversions(t *testing.T) {
	out := resolve(t, `
name: config engine
upper: !ref "{name|upper}"
lower: !ref "{name|lower}"
title: !ref "{name|title}"
`)
	cases := map[string]string{
		"upper": "CONFIG ENGINE",
		"lower": "config engine",
		"title": "Config Engine",
	}
	for key, want := range cases {
		if got := lookup(t, out, key).Text(); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
}

func TestResolveEscapedBraces(t *testing.T) {
	out := resolve(t, `
name: web
msg: !ref "literal {{braces}} around {name}"
`)
	if got := lookup(t, out, "msg").Text(); got != "literal {braces} around web" {
		t.Errorf("msg = %q", got)
	}
}

func TestResolveBareAdoptsSubtree(t *testing.T) {
	out := resolve(t, `
defaults:
  retries: 3
  timeout: 30
port: 8080
service:
  settings: !ref "{defaults}"
  port: !ref "{port}"
`)

	settings := lookup(t, out, "service.settings")
	if !settings.Equal(lookup(t, out, "defaults")) {
		t.Errorf("settings = %s, want copy of defaults", settings)
	}

	port := lookup(t, out, "service.port")
	if n, ok := port.Int64(); !ok || n != 8080 {
		t.Errorf("port = %s, want integer 8080", port)
	}
}

func TestResolveBareWithConversionRendersText(t *testing.T) {
	out := resolve(t, `
name: web
loud: !ref "{name|upper}"
`)
	loud := lookup(t, out, "loud")
	if loud.Scalar() != document.ScalarString || loud.Text() != "WEB" {
		t.Errorf("loud = %s, want string WEB", loud)
	}
}

func TestResolveChainedReferences(t *testing.T) {
	out := resolve(t, `
region: eu-west-1
cluster: !ref "db.{region}"
dsn: !ref "postgres://{cluster}/app"
`)
	if got := lookup(t, out, "dsn").Text(); got != "postgres://db.eu-west-1/app" {
		t.Errorf("dsn = %q", got)
	}
}

func TestResolveSequenceElements(t *testing.T) {
	out := resolve(t, `
primary: https://a.example.com
mirrors:
  - !ref "{primary}"
  - https://b.example.com
first: !ref "{mirrors[0]}"
`)
	if got := lookup(t, out, "mirrors[0]").Text(); got != "https://a.example.com" {
		t.Errorf("mirrors[0] = %q", got)
	}
	if got := lookup(t, out, "first").Text(); got != "https://a.example.com" {
		t.Errorf("first = %q", got)
	}
}

func TestResolveCycleIsError(t *testing.T) {
	for name, src := range map[string]string{
		"self":   "a: !ref \"{a}\"\n",
		"mutual": "a: !ref \"{b}\"\nb: !ref \"{a}\"\n",
		"parent": "a:\n  b: !ref \"{a}\"\n",
	} {
		_, err := interp.Resolve(parse(t, src))
		if err == nil || !strings.Contains(err.Error(), "circular") {
			t.Errorf("%s: err = %v, want circular reference", name, err)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown path", "x: !ref \"{missing.key}\"\n", "points at nothing"},
		{"unterminated", "x: !ref \"{oops\"\n", "unterminated reference"},
		{"unmatched close", "x: !ref \"oops}\"\n", "unmatched '}'"},
		{"empty reference", "x: !ref \"{}\"\n", "empty reference"},
		{"empty conversion", "a: 1\nx: !ref \"{a|}\"\n", "empty conversion"},
		{"unknown conversion", "a: hi\nx: !ref \"{a|shout}\"\n", "unknown conversion"},
		{"mapping in text", "a:\n  b: 1\nx: !ref \"v={a}\"\n", "no text form"},
		{"null in text", "a:\nx: !ref \"v={a}\"\n", "no text form"},
		{"non-string pattern", "x: !ref 5\n", "string pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := interp.Resolve(parse(t, tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestResolveLeavesInputUntouched(t *testing.T) {
	doc := parse(t, "name: web\nalias: !ref \"{name}\"\n")
	if _, err := interp.Resolve(doc); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	alias, _ := doc.Get("alias")
	if alias.Tag() != interp.Tag {
		t.Errorf("input tree was modified: alias tag = %q", alias.Tag())
	}
}

func TestResolveNoReferencesIsIdentity(t *testing.T) {
	doc := parse(t, "a: 1\nb:\n  - x\n  - 2.5\n")
	out, err := interp.Resolve(doc)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !out.Equal(doc) {
		t.Errorf("out = %s, want %s", out, doc)
	}
}
