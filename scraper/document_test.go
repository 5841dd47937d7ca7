package scraper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   \n\t"} {
		_, err := Parse([]byte(in))
		var pe *ParseError
		require.True(t, errors.As(err, &pe), "input %q", in)
		assert.ErrorIs(t, err, ErrEmptyDocument)
	}
}

func TestParse_ToleratesMalformedMarkup(t *testing.T) {
	root, err := Parse([]byte(`<div class="a"><p>one<p>two</div><span>unclosed`))
	require.NoError(t, err)

	ps := root.FindAll("div.a p")
	require.Len(t, ps, 2)
	assert.Equal(t, "one", ps[0].Text())
	assert.Equal(t, "two", ps[1].Text())

	span, ok := root.First("span")
	require.True(t, ok)
	assert.Equal(t, "unclosed", span.Text())
}

func TestElement_QueriesNeverFail(t *testing.T) {
	root, err := Parse([]byte(`<ul><li><a href="/x">x <b>bold</b></a></li></ul>`))
	require.NoError(t, err)

	_, ok := root.First("table")
	assert.False(t, ok)
	assert.Empty(t, root.FindAll("table"))
	assert.Empty(t, root.FindAll("[[not a selector"))

	a, ok := root.First("li a")
	require.True(t, ok)
	assert.Equal(t, "x bold", a.Text())

	href, ok := a.Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "/x", href)

	_, ok = a.Attr("title")
	assert.False(t, ok)
}
