package client

import (
	"context"
	"net/http"
	"net/url"

	"newsnotes/types"
)

// AddNote creates a note with a "body" text field and attaches it to the article
func (c *Client) AddNote(ctx context.Context, articleID, text string) (*types.Note, error) {
	var resp struct {
		Note types.Note `json:"note"`
	}
	payload := types.NoteBody{"body": text}
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/articles/"+url.PathEscape(articleID)+"/notes", payload, &resp); err != nil {
		return nil, err
	}
	return &resp.Note, nil
}

// ArticleNotes fetches the article with its notes resolved
func (c *Client) ArticleNotes(ctx context.Context, articleID string) (*types.ArticleWithNotes, error) {
	var a types.ArticleWithNotes
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/articles/"+url.PathEscape(articleID)+"/notes", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteNote removes a note
func (c *Client) DeleteNote(ctx context.Context, noteID string) error {
	return c.doJSONRequest(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(noteID), nil, nil)
}
