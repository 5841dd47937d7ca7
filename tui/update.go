package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case ArticlesLoadedMsg:
		return m.handleArticlesLoaded(msg)
	case ScrapeFinishedMsg:
		return m.handleScrapeFinished(msg)
	case ArticleChangedMsg:
		return m.handleArticleChanged(msg)
	case NotesLoadedMsg:
		return m.handleNotesLoaded(msg)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.Detail = nil
		return m, nil
	}

	if m.Detail != nil || m.State == StateScraping {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Articles)-1 {
			m.Cursor++
		}
	case "tab":
		if m.Tab == TabInbox {
			m.Tab = TabSaved
		} else {
			m.Tab = TabInbox
		}
		m.Cursor = 0
		m.State = StateLoading
		return m, loadArticles(m.api, m.Tab)
	case "r":
		m.State = StateScraping
		m.Status = TextScraping
		return m, scrape(m.api, m.source)
	case "s":
		if a, ok := m.Selected(); ok {
			return m, setSaved(m.api, a.ID, !a.Saved)
		}
	case "d":
		if a, ok := m.Selected(); ok {
			return m, deleteArticle(m.api, a.ID)
		}
	case "enter":
		if a, ok := m.Selected(); ok {
			return m, loadNotes(m.api, a.ID)
		}
	}
	return m, nil
}

func (m Model) handleArticlesLoaded(msg ArticlesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Tab != m.Tab {
		return m, nil
	}
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.State = StateIdle
	m.Err = nil
	m.Articles = msg.Articles
	if m.Cursor >= len(m.Articles) {
		m.Cursor = max(len(m.Articles)-1, 0)
	}
	return m, nil
}

func (m Model) handleScrapeFinished(msg ScrapeFinishedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = fmt.Errorf("scrape failed: %w", msg.Err)
		return m, nil
	}
	m.LastReport = msg.Report
	m.Status = fmt.Sprintf("Scraped %d records: %d created, %d updated, %d failed",
		msg.Report.CandidatesSeen, msg.Report.Created, msg.Report.Updated, msg.Report.Failed)
	m.Tab = TabInbox
	m.Cursor = 0
	m.State = StateLoading
	return m, loadArticles(m.api, m.Tab)
}

func (m Model) handleArticleChanged(msg ArticleChangedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.Status = msg.Status
	return m, loadArticles(m.api, m.Tab)
}

func (m Model) handleNotesLoaded(msg NotesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.Detail = msg.Article
	return m, nil
}
