package client

import (
	"context"
	"net/http"
	"net/url"

	"newsnotes/scraper"
	"newsnotes/types"
)

// ListArticles lists saved or unsaved articles
func (c *Client) ListArticles(ctx context.Context, saved bool) ([]types.Article, error) {
	q := url.Values{}
	if saved {
		q.Set("saved", "true")
	} else {
		q.Set("saved", "false")
	}

	var resp struct {
		Articles []types.Article `json:"articles"`
	}
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/articles?"+q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Articles, nil
}

// GetArticle fetches one article
func (c *Client) GetArticle(ctx context.Context, id string) (*types.Article, error) {
	var a types.Article
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/articles/"+url.PathEscape(id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// SetSaved saves or unsaves an article
func (c *Client) SetSaved(ctx context.Context, id string, saved bool) (*types.Article, error) {
	var a types.Article
	patch := types.ArticlePatch{Saved: &saved}
	if err := c.doJSONRequest(ctx, http.MethodPut, "/api/articles/"+url.PathEscape(id), patch, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteArticle removes an article
func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	return c.doJSONRequest(ctx, http.MethodDelete, "/api/articles/"+url.PathEscape(id), nil, nil)
}

// ClearArticles removes every article and returns how many were deleted
func (c *Client) ClearArticles(ctx context.Context) (int, error) {
	var resp struct {
		Deleted int `json:"deleted"`
	}
	if err := c.doJSONRequest(ctx, http.MethodDelete, "/api/articles", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

// Content fetches the reader view of the article's page
func (c *Client) Content(ctx context.Context, id string) (*scraper.ReaderView, error) {
	var v scraper.ReaderView
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/articles/"+url.PathEscape(id)+"/content", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
