package tui

import (
	"fmt"
	"sort"
	"strings"

	"newsnotes/types"

	"github.com/mattn/go-runewidth"
)

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(TextTitle))
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	if m.Detail != nil {
		b.WriteString(BoxStyle.Render(m.detail()))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render(TextFooterDetail))
		return b.String()
	}

	switch m.State {
	case StateLoading:
		b.WriteString(InfoStyle.Render(TextLoading))
	case StateScraping:
		b.WriteString(StatusStyle.Render(TextScraping))
	case StateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
	default:
		b.WriteString(m.list())
	}
	b.WriteString("\n\n")

	if m.Status != "" && m.State != StateScraping {
		b.WriteString(StatusStyle.Render(m.Status))
		b.WriteString("\n")
	}
	if r := m.LastReport; r != nil && !r.Succeeded {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Last run failed at %s: %s", r.Stage, r.Error)))
		b.WriteString("\n")
	}
	b.WriteString(InfoStyle.Render(TextFooterList))
	return b.String()
}

func (m Model) tabs() string {
	inbox, saved := TabStyle, TabStyle
	if m.Tab == TabInbox {
		inbox = ActiveTabStyle
	} else {
		saved = ActiveTabStyle
	}
	return inbox.Render("Inbox") + " " + saved.Render("Saved")
}

func (m Model) list() string {
	if len(m.Articles) == 0 {
		if m.Tab == TabSaved {
			return InfoStyle.Render(TextEmptySaved)
		}
		return InfoStyle.Render(TextEmptyInbox)
	}

	var b strings.Builder
	for i, a := range m.Articles {
		title := m.fit(headline(a), 2)
		line := fmt.Sprintf("%s  %s", title, InfoStyle.Render(types.Deref(a.Category)))
		if len(a.Notes) > 0 {
			line += InfoStyle.Render(fmt.Sprintf("  (%d notes)", len(a.Notes)))
		}
		if i == m.Cursor {
			b.WriteString(SelectedStyle.Render("> " + title))
			b.WriteString("\n")
			if s := types.Deref(a.Summary); s != "" {
				b.WriteString(InfoStyle.Render("  " + m.fit(s, 2)))
				b.WriteString("\n")
			}
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) detail() string {
	a := m.Detail
	var b strings.Builder
	b.WriteString(headline(a.Article))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(a.Link))
	b.WriteString("\n\n")

	if len(a.ResolvedNotes) == 0 {
		b.WriteString(InfoStyle.Render(TextNoNotes))
	}
	for _, n := range a.ResolvedNotes {
		b.WriteString(fmt.Sprintf("- %s  %s\n", noteText(n.Body), InfoStyle.Render(n.CreatedAt.Format("2006-01-02 15:04"))))
	}
	if len(a.MissingNotes) > 0 {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("%d note(s) no longer exist", len(a.MissingNotes))))
	}
	return strings.TrimRight(b.String(), "\n")
}

// fit truncates s to the terminal width less indent columns. Wide runes
// count as two columns.
func (m Model) fit(s string, indent int) string {
	w := m.Width - indent
	if m.Width == 0 || w <= 0 {
		return s
	}
	return runewidth.Truncate(s, w, "…")
}

func headline(a types.Article) string {
	if t := types.Deref(a.Title); t != "" {
		return t
	}
	return a.Link
}

// noteText prefers the conventional "body" field and falls back to key=value pairs
func noteText(body types.NoteBody) string {
	if s, ok := body["body"].(string); ok {
		return s
	}
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, body[k]))
	}
	return strings.Join(parts, " ")
}
