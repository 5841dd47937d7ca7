// Package tui is a terminal inbox for scraped articles and their notes.
package tui

import (
	"context"

	"newsnotes/ingest"
	"newsnotes/types"

	tea "github.com/charmbracelet/bubbletea"
)

// API is the subset of the HTTP client the TUI drives
type API interface {
	ListArticles(ctx context.Context, saved bool) ([]types.Article, error)
	SetSaved(ctx context.Context, id string, saved bool) (*types.Article, error)
	DeleteArticle(ctx context.Context, id string) error
	ArticleNotes(ctx context.Context, id string) (*types.ArticleWithNotes, error)
	Scrape(ctx context.Context, source string) (*ingest.Report, error)
}

// Tab selects which list is shown
type Tab int

const (
	TabInbox Tab = iota
	TabSaved
)

func (t Tab) saved() bool { return t == TabSaved }

// State represents what the UI is waiting on
type State string

const (
	StateLoading  State = "loading"
	StateIdle     State = "idle"
	StateScraping State = "scraping"
	StateError    State = "error"
)

// Model is the TUI state
type Model struct {
	api    API
	source string

	Tab      Tab
	State    State
	Articles []types.Article
	Cursor   int
	// Detail is set while the notes of one article are shown
	Detail     *types.ArticleWithNotes
	LastReport *ingest.Report
	Status     string
	Err        error
	// Width is the terminal width; zero until the first resize
	Width int
}

// NewModel creates a model that scrapes source on 'r'. An empty source
// means the server default.
func NewModel(api API, source string) Model {
	return Model{
		api:    api,
		source: source,
		Tab:    TabInbox,
		State:  StateLoading,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return loadArticles(m.api, m.Tab)
}

// Selected returns the article under the cursor
func (m Model) Selected() (types.Article, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Articles) {
		return types.Article{}, false
	}
	return m.Articles[m.Cursor], true
}
