package tui

import (
	"context"
	"errors"
	"testing"

	"newsnotes/ingest"
	"newsnotes/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	inbox, saved []types.Article
	savedCalls   map[string]bool
	deleted      []string
	scrapeErr    error
}

func (f *fakeAPI) ListArticles(ctx context.Context, saved bool) ([]types.Article, error) {
	if saved {
		return f.saved, nil
	}
	return f.inbox, nil
}

func (f *fakeAPI) SetSaved(ctx context.Context, id string, saved bool) (*types.Article, error) {
	if f.savedCalls == nil {
		f.savedCalls = map[string]bool{}
	}
	f.savedCalls[id] = saved
	return &types.Article{ID: id, Saved: saved}, nil
}

func (f *fakeAPI) DeleteArticle(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) ArticleNotes(ctx context.Context, id string) (*types.ArticleWithNotes, error) {
	return &types.ArticleWithNotes{
		Article:       types.Article{ID: id, Title: types.StringPtr("Story"), Link: "https://example.com/a"},
		ResolvedNotes: []types.Note{{ID: "n1", Body: types.NoteBody{"body": "remember this"}}},
		MissingNotes:  []string{"gone"},
	}, nil
}

func (f *fakeAPI) Scrape(ctx context.Context, source string) (*ingest.Report, error) {
	if f.scrapeErr != nil {
		return nil, f.scrapeErr
	}
	return &ingest.Report{Succeeded: true, CandidatesSeen: 2, Created: 2}, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step applies msg and runs the resulting command once, feeding its message back
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, quit := out.(tea.QuitMsg); !quit {
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

func loaded(t *testing.T, api *fakeAPI) Model {
	t.Helper()
	m := NewModel(api, "npr")
	return step(t, m, m.Init()())
}

func twoArticles() []types.Article {
	return []types.Article{
		{ID: "a", Link: "https://example.com/a", Title: types.StringPtr("First")},
		{ID: "b", Link: "https://example.com/b", Title: types.StringPtr("Second")},
	}
}

func TestModel_LoadsInbox(t *testing.T) {
	m := loaded(t, &fakeAPI{inbox: twoArticles()})
	assert.Equal(t, StateIdle, m.State)
	require.Len(t, m.Articles, 2)
	assert.Contains(t, m.View(), "First")
}

func TestModel_CursorAndSaveToggle(t *testing.T) {
	api := &fakeAPI{inbox: twoArticles()}
	m := loaded(t, api)

	m = step(t, m, key("j"))
	m = step(t, m, key("j"))
	assert.Equal(t, 1, m.Cursor)

	m = step(t, m, key("s"))
	assert.Equal(t, map[string]bool{"b": true}, api.savedCalls)
	assert.Equal(t, "Saved article", m.Status)

	m = step(t, m, key("d"))
	assert.Equal(t, []string{"b"}, api.deleted)
}

func TestModel_TabSwitch(t *testing.T) {
	api := &fakeAPI{inbox: twoArticles(), saved: []types.Article{{ID: "s", Saved: true, Title: types.StringPtr("Kept")}}}
	m := loaded(t, api)

	m = step(t, m, key("tab"))
	assert.Equal(t, TabSaved, m.Tab)
	require.Len(t, m.Articles, 1)
	assert.Equal(t, "s", m.Articles[0].ID)

	// a stale inbox load does not overwrite the saved list
	next, _ := m.Update(ArticlesLoadedMsg{Tab: TabInbox, Articles: twoArticles()})
	assert.Len(t, next.(Model).Articles, 1)
}

func TestModel_Notes(t *testing.T) {
	m := loaded(t, &fakeAPI{inbox: twoArticles()})

	m = step(t, m, key("enter"))
	require.NotNil(t, m.Detail)
	view := m.View()
	assert.Contains(t, view, "remember this")
	assert.Contains(t, view, "1 note(s) no longer exist")

	m = step(t, m, key("esc"))
	assert.Nil(t, m.Detail)
}

func TestModel_Scrape(t *testing.T) {
	api := &fakeAPI{inbox: twoArticles()}
	m := loaded(t, api)

	next, cmd := m.Update(key("r"))
	m = next.(Model)
	assert.Equal(t, StateScraping, m.State)
	require.NotNil(t, cmd)

	m = step(t, m, cmd())
	assert.Equal(t, StateIdle, m.State)
	assert.Contains(t, m.Status, "2 created")

	api.scrapeErr = errors.New("server returned 409: ingestion run already in progress")
	m = step(t, m, key("r"))
	assert.Equal(t, StateError, m.State)
	assert.Contains(t, m.View(), "409")
}

func TestNoteText(t *testing.T) {
	assert.Equal(t, "hi", noteText(types.NoteBody{"body": "hi"}))
	assert.Equal(t, "a=1 b=x", noteText(types.NoteBody{"b": "x", "a": 1}))
}

func TestModel_TruncatesToWidth(t *testing.T) {
	long := "A very long headline that cannot fit on a narrow terminal"
	api := &fakeAPI{inbox: []types.Article{{ID: "a", Link: "https://example.com/a", Title: types.StringPtr(long)}}}
	m := loaded(t, api)
	assert.Contains(t, m.View(), long)

	m = step(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})
	assert.Equal(t, 20, m.Width)
	assert.Equal(t, "A very long headl…", m.fit(long, 2))
	assert.NotContains(t, m.View(), long)
}

func TestFit_WideRunes(t *testing.T) {
	m := Model{Width: 8}
	// each ideograph is two columns wide
	assert.Equal(t, "日本…", m.fit("日本語の記事", 2))
	assert.Equal(t, "short", Model{}.fit("short", 2))
}
