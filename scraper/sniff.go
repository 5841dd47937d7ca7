package scraper

import (
	"bytes"
	"context"
	"iter"
	"strings"
)

// AutoExtractor routes feed documents to Feed and everything else to HTML
type AutoExtractor struct {
	HTML *HTMLExtractor
	Feed FeedExtractor
}

// Extract implements the coordinator's extractor contract
func (a *AutoExtractor) Extract(ctx context.Context, doc *Document) (iter.Seq[Candidate], error) {
	if IsFeed(doc) {
		return a.Feed.Extract(ctx, doc)
	}
	return a.HTML.Extract(ctx, doc)
}

// IsFeed reports whether doc looks like an RSS or Atom feed, by content type
// first and then by its leading markup.
func IsFeed(doc *Document) bool {
	ct := strings.ToLower(doc.ContentType)
	switch {
	case strings.Contains(ct, "rss"), strings.Contains(ct, "atom"):
		return true
	case strings.Contains(ct, "html"):
		return false
	}

	head := doc.Body
	if len(head) > 512 {
		head = head[:512]
	}
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.ToLower(bytes.TrimSpace(head))
	if bytes.HasPrefix(head, []byte("<?xml")) {
		if i := bytes.Index(head, []byte("?>")); i >= 0 {
			head = bytes.TrimSpace(head[i+2:])
		}
	}
	return bytes.HasPrefix(head, []byte("<rss")) || bytes.HasPrefix(head, []byte("<feed")) || bytes.HasPrefix(head, []byte("<rdf"))
}
