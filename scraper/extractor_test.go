package scraper

import (
	"context"
	"os"
	"testing"

	"newsnotes/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func collect(t *testing.T, root Element, rules RuleSet) []Candidate {
	t.Helper()
	var out []Candidate
	for c := range Extract(root, rules, nil) {
		out = append(out, c)
	}
	return out
}

func TestExtract_NPRSection(t *testing.T) {
	root, err := Parse(loadFixture(t, "npr_section.html"))
	require.NoError(t, err)

	got := collect(t, root, NPRRules)
	require.Len(t, got, 5)

	wantTitles := []string{"First headline", "Second headline", "Third headline", "Fourth headline", "Fifth headline"}
	for i, c := range got {
		assert.Equal(t, i, c.Index)
		require.NotNil(t, c.Get(types.FieldTitle))
		assert.Equal(t, wantTitles[i], *c.Get(types.FieldTitle))
	}

	first := got[0]
	assert.Equal(t, "https://www.npr.org/2024/05/01/first", *first.Get(types.FieldLink))
	assert.Equal(t, "https://media.npr.org/first.jpg", *first.Get(types.FieldImage))
	assert.Equal(t, "Politics", *first.Get(types.FieldCategory))
	assert.Equal(t, "May 1, 2024 The first teaser.", *first.Get(types.FieldSummary))
	assert.Empty(t, first.Misses)

	// image elements without src resolve to nil but the records remain
	assert.Nil(t, got[2].Get(types.FieldImage))
	assert.Equal(t, []string{types.FieldImage}, got[2].Misses)
	assert.Nil(t, got[4].Get(types.FieldImage))
	assert.Equal(t, "The fifth teaser.", *got[4].Get(types.FieldSummary))
}

func TestExtract_MissingChainStepYieldsNil(t *testing.T) {
	root, err := Parse([]byte(`
		<article class="has-image"><div class="item-info"><h2 class="title"><a href="/a">A</a></h2></div></article>
		<article class="has-image"><p>nothing useful</p></article>`))
	require.NoError(t, err)

	got := collect(t, root, NPRRules)
	require.Len(t, got, 2)

	assert.Equal(t, "A", *got[0].Get(types.FieldTitle))
	assert.Nil(t, got[0].Get(types.FieldCategory))
	assert.ElementsMatch(t, []string{types.FieldImage, types.FieldCategory, types.FieldSummary}, got[0].Misses)

	assert.True(t, got[1].Empty())
	assert.Len(t, got[1].Misses, len(NPRRules.Fields))
}

func TestExtract_NoMatchesIsNotAnError(t *testing.T) {
	root, err := Parse([]byte(`<html><body><p>no articles today</p></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, collect(t, root, NPRRules))
}

func TestExtract_StopsWhenConsumerStops(t *testing.T) {
	root, err := Parse(loadFixture(t, "npr_section.html"))
	require.NoError(t, err)

	n := 0
	for range Extract(root, NPRRules, nil) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestHTMLExtractor(t *testing.T) {
	x, err := NewHTMLExtractor(NPRRules, nil)
	require.NoError(t, err)

	seq, err := x.Extract(context.Background(), &Document{Body: loadFixture(t, "npr_section.html")})
	require.NoError(t, err)
	n := 0
	for range seq {
		n++
	}
	assert.Equal(t, 5, n)

	_, err = x.Extract(context.Background(), &Document{Body: []byte("  ")})
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)

	_, err = NewHTMLExtractor(RuleSet{Name: "bad"}, nil)
	assert.Error(t, err)
}

func TestExtract_RequiredMisses(t *testing.T) {
	rules := RuleSet{
		Name:   "strict",
		Record: "li",
		Fields: []FieldRule{
			{Name: types.FieldTitle, Path: []string{"h2"}, Mode: ModeText, Required: true},
			{Name: types.FieldLink, Path: []string{"a"}, Mode: ModeAttr, Attr: "href"},
		},
	}
	root, err := Parse([]byte(`<ul><li><h2>Kept</h2></li><li><a href="/x">no title</a></li></ul>`))
	require.NoError(t, err)

	got := collect(t, root, rules)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].MissingRequired)
	assert.Equal(t, []string{types.FieldLink}, got[0].Misses)
	assert.Equal(t, []string{types.FieldTitle}, got[1].MissingRequired)
}
