package tomldoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneconfig/oneconfig/pkg/adapters/tomldoc"
	"github.com/oneconfig/oneconfig/pkg/document"
)

func TestDecode_PreservesOrderAndKinds(t *testing.T) {
	src := []byte(`
zname = "demo"
count = 3
ratio = 0.25
debug = true
tags = ["cli", "go"]

[website]
homepage = "https://example.com"
priority = 2
`)
	v, err := tomldoc.Decode(src)
	require.NoError(t, err)

	assert.Equal(t, []string{"zname", "count", "ratio", "debug", "tags", "website"}, v.Keys(),
		"keys keep source order")

	count, _ := v.Get("count")
	n, ok := count.Int64()
	require.True(t, ok)
	assert.Equal(t, int64(3), n)

	ratio, _ := v.Get("ratio")
	assert.Equal(t, document.ScalarFloat, ratio.Scalar())
	f, _ := ratio.Float64()
	assert.Equal(t, 0.25, f)

	website, _ := v.Get("website")
	require.Equal(t, document.KindMapping, website.Kind())
	assert.Equal(t, []string{"homepage", "priority"}, website.Keys())
}

func TestDecode_ArrayOfTables(t *testing.T) {
	src := []byte(`
[[mirror]]
url = "https://a.example.com"
weight = 1

[[mirror]]
url = "https://b.example.com"
weight = 2
`)
	v, err := tomldoc.Decode(src)
	require.NoError(t, err)

	mirrors, _ := v.Get("mirror")
	require.Equal(t, document.KindSequence, mirrors.Kind())
	require.Equal(t, 2, mirrors.Len())

	first := mirrors.Index(0)
	assert.Equal(t, []string{"url", "weight"}, first.Keys())
	url, _ := first.Get("url")
	assert.Equal(t, "https://a.example.com", url.Text())
}

func TestDecode_Datetimes(t *testing.T) {
	src := []byte(`
released = 2024-06-01
built = 2024-06-01T12:30:00Z
`)
	v, err := tomldoc.Decode(src)
	require.NoError(t, err)

	released, _ := v.Get("released")
	assert.Equal(t, "2024-06-01", released.Text(), "date-only values drop the clock")

	built, _ := v.Get("built")
	assert.Equal(t, "2024-06-01T12:30:00Z", built.Text())
}

func TestDecode_Malformed(t *testing.T) {
	_, err := tomldoc.Decode([]byte("= nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse toml")
}

func TestDecode_InlineTables(t *testing.T) {
	src := []byte(`point = { y = 2, x = 1 }`)

	v, err := tomldoc.Decode(src)
	require.NoError(t, err)

	point, _ := v.Get("point")
	require.Equal(t, document.KindMapping, point.Kind())
	assert.Equal(t, []string{"y", "x"}, point.Keys(), "inline table order survives")
}
