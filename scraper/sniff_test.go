package scraper

import (
	"context"
	"os"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFeed(t *testing.T) {
	cases := []struct {
		name string
		doc  Document
		want bool
	}{
		{"rss content type", Document{ContentType: "application/rss+xml", Body: []byte("x")}, true},
		{"html content type", Document{ContentType: "text/html; charset=utf-8", Body: []byte("<rss>")}, false},
		{"xml prolog then rss", Document{ContentType: "text/xml", Body: []byte(`<?xml version="1.0"?>` + "\n<rss version=\"2.0\">")}, true},
		{"atom without type", Document{Body: []byte(`<feed xmlns="http://www.w3.org/2005/Atom">`)}, true},
		{"plain html", Document{Body: []byte("<!doctype html><html>")}, false},
		{"byte order mark before prolog", Document{ContentType: "application/xml", Body: []byte("\xef\xbb\xbf<?xml version=\"1.0\"?><rss version=\"2.0\">")}, true},
		{"byte order mark before atom", Document{ContentType: "text/xml", Body: []byte("\xef\xbb\xbf\n<feed xmlns=\"http://www.w3.org/2005/Atom\">")}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsFeed(&tc.doc))
		})
	}
}

func TestAutoExtractor(t *testing.T) {
	html, err := NewHTMLExtractor(NPRRules, nil)
	require.NoError(t, err)
	auto := &AutoExtractor{HTML: html}

	feedBody, err := os.ReadFile("testdata/feed.xml")
	require.NoError(t, err)
	seq, err := auto.Extract(context.Background(), &Document{Body: feedBody})
	require.NoError(t, err)
	assert.Len(t, slices.Collect(seq), 2)

	pageBody, err := os.ReadFile("testdata/npr_section.html")
	require.NoError(t, err)
	seq, err = auto.Extract(context.Background(), &Document{ContentType: "text/html", Body: pageBody})
	require.NoError(t, err)
	assert.Len(t, slices.Collect(seq), 5)
}
