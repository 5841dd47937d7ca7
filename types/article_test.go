package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkKey(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "   ", ""},
		{"simple", "https://www.npr.org/2024/01/02/story", "https://www.npr.org/2024/01/02/story"},
		{"utm and fragment", "https://www.npr.org/story/?utm_source=feed#top", "https://www.npr.org/story"},
		{"uppercase host", "HTTPS://WWW.NPR.ORG/Story", "https://www.npr.org/Story"},
		{"tracking params", "https://example.com/a?fbclid=X&gclid=Y&id=3", "https://example.com/a?id=3"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, LinkKey(c.in))
		})
	}
}

func TestArticlePatchApply(t *testing.T) {
	a := Article{Link: "https://example.com/a", Title: StringPtr("old")}
	saved := true
	p := ArticlePatch{Title: StringPtr("new"), Saved: &saved}

	assert.False(t, p.Empty())
	p.Apply(&a)

	assert.Equal(t, "new", Deref(a.Title))
	assert.True(t, a.Saved)
	assert.Equal(t, "https://example.com/a", a.Link)
	assert.True(t, ArticlePatch{}.Empty())
}
