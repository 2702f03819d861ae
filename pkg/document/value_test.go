package document

import "testing"

func TestScalarAccessors(t *testing.T) {
	tests := []struct {
		name      string
		value     Value
		kind      ScalarKind
		wantText  string
		wantInt   int64
		wantIntOK bool
	}{
		{"string", NewString("hello"), ScalarString, "hello", 0, false},
		{"int", NewInt(42), ScalarInt, "42", 42, true},
		{"negative int", NewInt(-7), ScalarInt, "-7", -7, true},
		{"float", NewFloat(2.5), ScalarFloat, "2.5", 0, false},
		{"bool", NewBool(true), ScalarBool, "true", 0, false},
		{"null", Null(), ScalarNull, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value.Kind() != KindScalar {
				t.Fatalf("Kind() = %v, want scalar", tt.value.Kind())
			}
			if tt.value.Scalar() != tt.kind {
				t.Errorf("Scalar() = %v, want %v", tt.value.Scalar(), tt.kind)
			}
			if tt.value.Text() != tt.wantText {
				t.Errorf("Text() = %q, want %q", tt.value.Text(), tt.wantText)
			}
			n, ok := tt.value.Int64()
			if ok != tt.wantIntOK || n != tt.wantInt {
				t.Errorf("Int64() = (%d, %v), want (%d, %v)", n, ok, tt.wantInt, tt.wantIntOK)
			}
		})
	}
}

func TestFloat64AcceptsIntegers(t *testing.T) {
	f, ok := NewInt(3).Float64()
	if !ok || f != 3 {
		t.Fatalf("Float64() = (%v, %v), want (3, true)", f, ok)
	}
	if _, ok := NewString("3").Float64(); ok {
		t.Fatal("Float64() succeeded on a string scalar")
	}
}

func TestMappingOrder(t *testing.T) {
	m := NewMapping()
	m.Put("b", NewInt(1))
	m.Put("a", NewInt(2))
	m.Put("c", NewInt(3))
	m.Put("a", NewInt(4)) // overwrite keeps position

	want := []string{"b", "a", "c"}
	keys := m.Keys()
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("Keys() = %v, want %v", keys, want)
		}
	}

	a, ok := m.Get("a")
	if !ok {
		t.Fatal("Get(a) missing")
	}
	if n, _ := a.Int64(); n != 4 {
		t.Errorf("Get(a) = %v, want 4 after overwrite", a)
	}

	if !m.Delete("b") {
		t.Fatal("Delete(b) = false")
	}
	if m.Delete("b") {
		t.Fatal("Delete(b) twice reported true")
	}
	if got := m.Keys(); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Keys() after delete = %v, want [a c]", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	inner := NewMapping()
	inner.Put("x", NewInt(1))
	root := NewMapping()
	root.Put("inner", inner)
	root.Put("list", NewSequence(NewString("a")))

	cp := root.Clone()

	got, _ := cp.Get("inner")
	got.Put("x", NewInt(99))
	cp.Put("inner", got)

	orig, _ := root.Get("inner")
	x, _ := orig.Get("x")
	if n, _ := x.Int64(); n != 1 {
		t.Errorf("mutating clone leaked into original: x = %v", x)
	}
}

func TestEqual(t *testing.T) {
	build := func() Value {
		m := NewMapping()
		m.Put("name", NewString("demo"))
		m.Put("tags", NewSequence(NewString("a"), NewString("b")))
		return m
	}

	a, b := build(), build()
	if !a.Equal(b) {
		t.Fatal("identical trees reported unequal")
	}

	b.Put("name", NewString("other"))
	if a.Equal(b) {
		t.Fatal("different trees reported equal")
	}

	c := build()
	if a.Equal(c.WithTag("!x")) {
		t.Fatal("tagged and untagged trees reported equal")
	}

	// Same entries, different key order.
	d := NewMapping()
	d.Put("tags", NewSequence(NewString("a"), NewString("b")))
	d.Put("name", NewString("demo"))
	if a.Equal(d) {
		t.Fatal("key order ignored by Equal")
	}
}

func TestLookupAndSet(t *testing.T) {
	root := NewMapping()
	root.Put("website", NewMapping())

	p := Path{}.Key("website").Key("homepage")
	if err := root.Set(p, NewString("https://example.com")); err != nil {
		t.Fatalf("Set(%s) = %v", p, err)
	}

	got, ok := root.Lookup(p)
	if !ok || got.Text() != "https://example.com" {
		t.Fatalf("Lookup(%s) = (%v, %v)", p, got, ok)
	}

	// Set creates missing intermediate mappings.
	deep := Path{}.Key("a").Key("b").Key("c")
	if err := root.Set(deep, NewInt(1)); err != nil {
		t.Fatalf("Set(%s) = %v", deep, err)
	}
	if _, ok := root.Lookup(deep); !ok {
		t.Fatalf("Lookup(%s) missing after Set", deep)
	}

	// Index steps must resolve to existing slots.
	root.Put("list", NewSequence(NewInt(1)))
	if err := root.Set(Path{}.Key("list").Index(3), NewInt(9)); err == nil {
		t.Fatal("Set with out-of-range index succeeded")
	}
	if err := root.Set(Path{}.Key("list").Index(0), NewInt(9)); err != nil {
		t.Fatalf("Set(list[0]) = %v", err)
	}
	got, _ = root.Lookup(Path{}.Key("list").Index(0))
	if n, _ := got.Int64(); n != 9 {
		t.Errorf("list[0] = %v, want 9", got)
	}

	// Descending through a scalar fails.
	root.Put("name", NewString("demo"))
	if err := root.Set(Path{}.Key("name").Key("x"), Null()); err == nil {
		t.Fatal("Set through scalar succeeded")
	}
}

func TestInterfaceRoundTrip(t *testing.T) {
	m := NewMapping()
	m.Put("name", NewString("demo"))
	m.Put("threads", NewInt(4))
	m.Put("ratio", NewFloat(0.5))
	m.Put("enabled", NewBool(true))
	m.Put("empty", Null())
	m.Put("tags", NewSequence(NewString("a")))

	plain, ok := m.Interface().(map[string]any)
	if !ok {
		t.Fatalf("Interface() = %T, want map", m.Interface())
	}
	if plain["threads"] != int64(4) {
		t.Errorf("threads = %#v, want int64(4)", plain["threads"])
	}
	if plain["ratio"] != 0.5 {
		t.Errorf("ratio = %#v, want 0.5", plain["ratio"])
	}
	if plain["empty"] != nil {
		t.Errorf("empty = %#v, want nil", plain["empty"])
	}

	back, err := FromGo(plain)
	if err != nil {
		t.Fatalf("FromGo: %v", err)
	}
	for _, key := range []string{"name", "threads", "ratio", "enabled", "tags"} {
		orig, _ := m.Get(key)
		round, ok := back.Get(key)
		if !ok || !orig.Equal(round) {
			t.Errorf("round trip of %q: got %v, want %v", key, round, orig)
		}
	}
}

func TestFromGoRejectsUnsupported(t *testing.T) {
	if _, err := FromGo(struct{}{}); err == nil {
		t.Fatal("FromGo(struct{}{}) succeeded")
	}
}

func TestStringDebugForm(t *testing.T) {
	m := NewMapping()
	m.Put("n", NewInt(1))
	m.Put("s", NewString("x").WithTag("!ref"))

	got := m.String()
	want := `{n: 1, s: !ref "x"}`
	if got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
