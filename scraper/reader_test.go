package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html><head><title>A Quiet Morning in the Valley</title></head>
<body>
<nav><a href="/">Home</a> <a href="/news">News</a></nav>
<article>
<h1>A Quiet Morning in the Valley</h1>
<p>The valley woke slowly this morning as fog rolled over the river and the first farmers
walked out to their fields, carrying baskets and talking quietly about the weather ahead.</p>
<p>Residents said the season had been kind so far, with steady rain in spring and a warm
summer that left orchards heavy with fruit and the markets busier than they had been in years.</p>
<p>Local officials expect the harvest festival to draw visitors from across the region, and
volunteers have already begun building stalls along the main street near the old stone bridge.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func TestReader_Read(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	view, err := NewReader(NewFetcher()).Read(context.Background(), srv.URL+"/story")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/story", view.URL)
	assert.Equal(t, "A Quiet Morning in the Valley", view.Title)
	assert.Contains(t, view.Text, "harvest festival")
	assert.False(t, strings.Contains(view.Text, "Copyright"))
	assert.Positive(t, view.Length)
	assert.Contains(t, view.Markdown, "harvest festival")
	assert.NotContains(t, view.Markdown, "<p>")
}

func TestReader_InvalidLink(t *testing.T) {
	_, err := NewReader(NewFetcher()).Read(context.Background(), "")
	var fe *FetchError
	assert.ErrorAs(t, err, &fe)
}
