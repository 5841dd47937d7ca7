package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"newsnotes/types"

	"github.com/google/uuid"
)

// Memory is an in-process Store. It is used when no Redis is configured and in tests.
type Memory struct {
	mu       sync.RWMutex
	articles map[string]*types.Article
	order    []string
	notes    map[string]*types.Note
	now      func() time.Time
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		articles: make(map[string]*types.Article),
		notes:    make(map[string]*types.Note),
		now:      time.Now,
	}
}

func (m *Memory) FindArticles(ctx context.Context, filter ArticleFilter) ([]types.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Article, 0, len(m.order))
	for _, id := range m.order {
		a := m.articles[id]
		if filter.Matches(a) {
			out = append(out, cloneArticle(a))
		}
	}
	return out, nil
}

func (m *Memory) FindArticleByID(ctx context.Context, id string) (*types.Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.articles[id]
	if !ok {
		return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	c := cloneArticle(a)
	return &c, nil
}

func (m *Memory) CreateArticle(ctx context.Context, fields types.ArticleFields) (*types.Article, error) {
	now := m.now()
	a := &types.Article{
		ID:        uuid.NewString(),
		Link:      fields.Link,
		Image:     fields.Image,
		Title:     fields.Title,
		Category:  fields.Category,
		Summary:   fields.Summary,
		Saved:     false,
		Notes:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.mu.Lock()
	m.articles[a.ID] = a
	m.order = append(m.order, a.ID)
	m.mu.Unlock()

	c := cloneArticle(a)
	return &c, nil
}

func (m *Memory) UpdateArticle(ctx context.Context, id string, patch types.ArticlePatch) (*types.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.articles[id]
	if !ok {
		return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	patch.Apply(a)
	a.UpdatedAt = m.now()
	c := cloneArticle(a)
	return &c, nil
}

func (m *Memory) DeleteArticle(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.articles[id]; !ok {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	delete(m.articles, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) DeleteAllArticles(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.articles)
	m.articles = make(map[string]*types.Article)
	m.order = nil
	return n, nil
}

func (m *Memory) CreateNote(ctx context.Context, body types.NoteBody) (*types.Note, error) {
	n := &types.Note{
		ID:        uuid.NewString(),
		Body:      body,
		CreatedAt: m.now(),
	}

	m.mu.Lock()
	m.notes[n.ID] = n
	m.mu.Unlock()

	c := *n
	return &c, nil
}

// DeleteNote removes the note only. Articles keep their reference to it.
func (m *Memory) DeleteNote(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notes[id]; !ok {
		return fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	delete(m.notes, id)
	return nil
}

func (m *Memory) DeleteAllNotes(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.notes)
	m.notes = make(map[string]*types.Note)
	return n, nil
}

func (m *Memory) AttachNoteToArticle(ctx context.Context, articleID, noteID string) (*types.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.articles[articleID]
	if !ok {
		return nil, fmt.Errorf("article %s: %w", articleID, ErrNotFound)
	}
	if _, ok := m.notes[noteID]; !ok {
		return nil, fmt.Errorf("note %s: %w", noteID, ErrNotFound)
	}
	a.Notes = append(a.Notes, noteID)
	a.UpdatedAt = m.now()
	c := cloneArticle(a)
	return &c, nil
}

func (m *Memory) FindArticleWithNotes(ctx context.Context, id string) (*types.ArticleWithNotes, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.articles[id]
	if !ok {
		return nil, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	out := &types.ArticleWithNotes{
		Article:       cloneArticle(a),
		ResolvedNotes: []types.Note{},
	}
	for _, nid := range a.Notes {
		n, ok := m.notes[nid]
		if !ok {
			out.MissingNotes = append(out.MissingNotes, nid)
			continue
		}
		out.ResolvedNotes = append(out.ResolvedNotes, *n)
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }

func cloneArticle(a *types.Article) types.Article {
	c := *a
	c.Notes = append([]string{}, a.Notes...)
	return c
}
