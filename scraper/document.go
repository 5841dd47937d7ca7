package scraper

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// ErrEmptyDocument is the cause of a ParseError for a blank body
var ErrEmptyDocument = errors.New("empty document")

// ParseError reports input the tree builder cannot process at all.
// A selector that matches nothing is not a parse error.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing document: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Element is a node of a parsed document. Queries take CSS selectors; an
// invalid selector or a missing node yields an empty result, never an error.
type Element interface {
	// FindAll returns every descendant matching selector, in document order.
	FindAll(selector string) []Element
	// First returns the first descendant matching selector.
	First(selector string) (Element, bool)
	// Text returns the concatenated text of all descendant text nodes.
	Text() string
	// Attr returns the named attribute. ok is false when it is absent.
	Attr(name string) (value string, ok bool)
}

// Parse builds an element tree from raw markup. Malformed markup is repaired
// the way browsers do; only blank input or a read failure is rejected.
func Parse(body []byte) (Element, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &ParseError{Err: ErrEmptyDocument}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return selection{s: doc.Selection}, nil
}

type selection struct {
	s *goquery.Selection
}

func (e selection) FindAll(selector string) []Element {
	found := e.s.Find(selector)
	out := make([]Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, selection{s: s})
	})
	return out
}

func (e selection) First(selector string) (Element, bool) {
	found := e.s.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return selection{s: found}, true
}

func (e selection) Text() string {
	return e.s.Text()
}

func (e selection) Attr(name string) (string, bool) {
	return e.s.Attr(name)
}
