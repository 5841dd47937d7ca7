package scraper

import (
	"context"
	"testing"

	"newsnotes/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedExtractor(t *testing.T) {
	seq, err := FeedExtractor{}.Extract(context.Background(), &Document{Body: loadFixture(t, "feed.xml")})
	require.NoError(t, err)

	var got []Candidate
	for c := range seq {
		got = append(got, c)
	}
	require.Len(t, got, 2)

	one := got[0]
	assert.Equal(t, "Feed headline one", *one.Get(types.FieldTitle))
	assert.Equal(t, "https://www.npr.org/2024/05/01/feed-one", *one.Get(types.FieldLink))
	assert.Equal(t, "First feed summary.", *one.Get(types.FieldSummary))
	assert.Equal(t, "Politics", *one.Get(types.FieldCategory))
	assert.Equal(t, "https://media.npr.org/feed-one.jpg", *one.Get(types.FieldImage))
	assert.Empty(t, one.Misses)

	two := got[1]
	assert.Nil(t, two.Get(types.FieldSummary))
	assert.Nil(t, two.Get(types.FieldImage))
	assert.ElementsMatch(t, []string{types.FieldSummary, types.FieldCategory, types.FieldImage}, two.Misses)
}

func TestFeedExtractor_RejectsNonFeed(t *testing.T) {
	_, err := FeedExtractor{}.Extract(context.Background(), &Document{Body: []byte("this is not a feed")})
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}
