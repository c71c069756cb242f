package snapdomain

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/snapdomain/expander"
	"github.com/shibukawa/snapdomain/pattern"
)

func TestExpand(t *testing.T) {
	got, err := Expand("  {Car,Bike}.COM  # vehicles", DefaultMaxExpansion)
	assert.NoError(t, err)
	assert.Equal(t, []string{"car.com", "bike.com"}, got)

	_, err = Expand("car .com", DefaultMaxExpansion)
	assert.IsError(t, err, pattern.ErrWhitespace)

	_, err = Expand("[a-z]{4}.com", 100)
	assert.IsError(t, err, expander.ErrTooLarge)
}

func TestExpandDocument(t *testing.T) {
	text := `# shared top level domains
@tlds = {com,net}

a.@tlds
B.@TLDS
`

	got, err := ExpandDocument(text, DefaultMaxExpansion)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a.com", "a.net", "b.com", "b.net"}, got)

	size, err := DocumentSize(text)
	assert.NoError(t, err)
	assert.Equal(t, expander.Exact(4), size)
}

func TestExpandDocument_ErrorLine(t *testing.T) {
	_, err := ExpandDocument("# header\n\n@x = a\n@x = b\n", DefaultMaxExpansion)
	assert.IsError(t, err, pattern.ErrDuplicateVariable)

	var perr *pattern.ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, 4, perr.Line)
}

func TestPreview(t *testing.T) {
	result, err := Preview("[a-z]{8}.com", 3)
	assert.NoError(t, err)
	assert.Equal(t, []string{"aaaaaaaa.com", "aaaaaaab.com", "aaaaaaac.com"}, result.Domains)
	assert.True(t, result.Truncated)

	result, err = PreviewDocument("@v = [:v:]\nx@v.io\n", 10)
	assert.NoError(t, err)
	assert.Equal(t, []string{"xa.io", "xe.io", "xi.io", "xo.io", "xu.io"}, result.Domains)
	assert.False(t, result.Truncated)
}

func TestSize(t *testing.T) {
	size, err := Size("[:c:][:v:][:c:].ai")
	assert.NoError(t, err)
	assert.Equal(t, "2205", size.String())

	_, err = Size("(a)?.com")
	assert.IsError(t, err, pattern.ErrEmptyLabel)
}
