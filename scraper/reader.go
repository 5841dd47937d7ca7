package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
)

// ReaderView is the readable main content of an article page
type ReaderView struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Byline   string `json:"byline,omitempty"`
	SiteName string `json:"site_name,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
	Image    string `json:"image,omitempty"`
	Content  string `json:"content"`
	Markdown string `json:"markdown"`
	Text     string `json:"text"`
	Length   int    `json:"length"`
}

// Reader fetches an article page and extracts its main content
type Reader struct {
	fetcher   *Fetcher
	converter *md.Converter
}

// NewReader creates a reader that fetches through f
func NewReader(f *Fetcher) *Reader {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Reader{fetcher: f, converter: converter}
}

// Read fetches link and runs readability over the response
func (r *Reader) Read(ctx context.Context, link string) (*ReaderView, error) {
	pageURL, err := url.Parse(link)
	if err != nil || pageURL.Scheme == "" || pageURL.Host == "" {
		return nil, &FetchError{URL: link, Err: fmt.Errorf("invalid article link")}
	}

	doc, err := r.fetcher.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(doc.Body)) == 0 {
		return nil, &ParseError{Err: ErrEmptyDocument}
	}

	article, err := readability.FromReader(bytes.NewReader(doc.Body), pageURL)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("readability extraction failed: %w", err)}
	}

	markdown, err := r.converter.ConvertString(article.Content)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("markdown conversion failed: %w", err)}
	}

	return &ReaderView{
		URL:      link,
		Title:    article.Title,
		Byline:   article.Byline,
		SiteName: article.SiteName,
		Excerpt:  article.Excerpt,
		Image:    article.Image,
		Content:  article.Content,
		Markdown: strings.TrimSpace(markdown),
		Text:     article.TextContent,
		Length:   article.Length,
	}, nil
}
