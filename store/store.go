// Package store defines the persistence boundary for articles and notes.
package store

import (
	"context"
	"errors"

	"newsnotes/types"
)

var (
	// ErrNotFound is returned when the addressed article or note does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable wraps infrastructure failures of the backing store.
	ErrUnavailable = errors.New("store unavailable")
)

// ArticleFilter narrows FindArticles. A nil Saved matches every article.
type ArticleFilter struct {
	Saved *bool
}

// Matches reports whether the article passes the filter
func (f ArticleFilter) Matches(a *types.Article) bool {
	return f.Saved == nil || a.Saved == *f.Saved
}

// SavedFilter returns a filter on the saved flag
func SavedFilter(saved bool) ArticleFilter {
	return ArticleFilter{Saved: &saved}
}

// Store is the persistence interface consumed by the ingestion coordinator and
// the HTTP handlers. Articles are returned in creation order.
type Store interface {
	FindArticles(ctx context.Context, filter ArticleFilter) ([]types.Article, error)
	FindArticleByID(ctx context.Context, id string) (*types.Article, error)
	CreateArticle(ctx context.Context, fields types.ArticleFields) (*types.Article, error)
	UpdateArticle(ctx context.Context, id string, patch types.ArticlePatch) (*types.Article, error)
	DeleteArticle(ctx context.Context, id string) error
	DeleteAllArticles(ctx context.Context) (int, error)

	CreateNote(ctx context.Context, body types.NoteBody) (*types.Note, error)
	DeleteNote(ctx context.Context, id string) error
	DeleteAllNotes(ctx context.Context) (int, error)

	// AttachNoteToArticle appends a note reference to an existing article.
	AttachNoteToArticle(ctx context.Context, articleID, noteID string) (*types.Article, error)
	FindArticleWithNotes(ctx context.Context, id string) (*types.ArticleWithNotes, error)

	Close() error
}
