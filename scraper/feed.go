package scraper

import (
	"bytes"
	"context"
	"iter"
	"strings"

	"newsnotes/types"

	"github.com/mmcdole/gofeed"
)

// FeedExtractor turns RSS, Atom or JSON feed items into candidates carrying
// the same field names as the HTML rule sets.
type FeedExtractor struct{}

// Extract parses doc as a feed
func (FeedExtractor) Extract(ctx context.Context, doc *Document) (iter.Seq[Candidate], error) {
	if len(bytes.TrimSpace(doc.Body)) == 0 {
		return nil, &ParseError{Err: ErrEmptyDocument}
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(doc.Body))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	return func(yield func(Candidate) bool) {
		for i, item := range feed.Items {
			if !yield(feedCandidate(i, item)) {
				return
			}
		}
	}, nil
}

func feedCandidate(i int, item *gofeed.Item) Candidate {
	c := Candidate{Index: i, Fields: make(map[string]*string, 5)}
	set := func(name, v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			c.Misses = append(c.Misses, name)
			c.Fields[name] = nil
			return
		}
		c.Fields[name] = &v
	}

	set(types.FieldLink, item.Link)
	set(types.FieldTitle, item.Title)
	set(types.FieldSummary, item.Description)

	category := ""
	if len(item.Categories) > 0 {
		category = item.Categories[0]
	}
	set(types.FieldCategory, category)

	image := ""
	if item.Image != nil {
		image = item.Image.URL
	} else {
		for _, enc := range item.Enclosures {
			if enc != nil && strings.HasPrefix(enc.Type, "image/") {
				image = enc.URL
				break
			}
		}
	}
	set(types.FieldImage, image)
	return c
}
