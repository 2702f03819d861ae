package document

import "testing"

func TestPathString(t *testing.T) {
	tests := []struct {
		name string
		path Path
		want string
	}{
		{"root", Path{}, "$"},
		{"single key", Path{}.Key("name"), "name"},
		{"nested keys", Path{}.Key("website").Key("homepage"), "website.homepage"},
		{"index", Path{}.Key("authors").Index(0), "authors[0]"},
		{"index then key", Path{}.Key("jobs").Index(2).Key("cmd"), "jobs[2].cmd"},
		{"double index", Path{}.Key("grid").Index(1).Index(3), "grid[1][3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.path.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePath(t *testing.T) {
	valid := []string{"$", "name", "website.homepage", "authors[0]", "jobs[2].cmd", "grid[1][3]"}
	for _, s := range valid {
		p, err := ParsePath(s)
		if err != nil {
			t.Errorf("ParsePath(%q) = %v", s, err)
			continue
		}
		if p.String() != s {
			t.Errorf("ParsePath(%q).String() = %q", s, p.String())
		}
	}

	invalid := []string{".name", "name.", "a..b", "a[", "a[x]", "a[-1]"}
	for _, s := range invalid {
		if _, err := ParsePath(s); err == nil {
			t.Errorf("ParsePath(%q) succeeded, want error", s)
		}
	}
}

func TestPathCopyOnExtend(t *testing.T) {
	base := Path{}.Key("a")
	p1 := base.Key("b")
	p2 := base.Key("c")
	if p1.String() != "a.b" || p2.String() != "a.c" {
		t.Fatalf("extended paths alias each other: %q / %q", p1, p2)
	}
}
