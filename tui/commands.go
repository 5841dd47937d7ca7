package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const requestTimeout = 10 * time.Second

func loadArticles(api API, tab Tab) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		articles, err := api.ListArticles(ctx, tab.saved())
		return ArticlesLoadedMsg{Tab: tab, Articles: articles, Err: err}
	}
}

// scrape is not bounded by requestTimeout; the client timeout covers the run
func scrape(api API, source string) tea.Cmd {
	return func() tea.Msg {
		report, err := api.Scrape(context.Background(), source)
		return ScrapeFinishedMsg{Report: report, Err: err}
	}
}

func setSaved(api API, id string, saved bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := api.SetSaved(ctx, id, saved); err != nil {
			return ArticleChangedMsg{Err: err}
		}
		if saved {
			return ArticleChangedMsg{Status: "Saved article"}
		}
		return ArticleChangedMsg{Status: "Moved article back to inbox"}
	}
}

func deleteArticle(api API, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := api.DeleteArticle(ctx, id); err != nil {
			return ArticleChangedMsg{Err: err}
		}
		return ArticleChangedMsg{Status: fmt.Sprintf("Deleted article %s", id)}
	}
}

func loadNotes(api API, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		a, err := api.ArticleNotes(ctx, id)
		return NotesLoadedMsg{Article: a, Err: err}
	}
}
