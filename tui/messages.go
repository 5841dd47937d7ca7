package tui

import (
	"newsnotes/ingest"
	"newsnotes/types"
)

// ArticlesLoadedMsg carries a refreshed list for a tab
type ArticlesLoadedMsg struct {
	Tab      Tab
	Articles []types.Article
	Err      error
}

// ScrapeFinishedMsg carries the report of a triggered run
type ScrapeFinishedMsg struct {
	Report *ingest.Report
	Err    error
}

// ArticleChangedMsg follows a save toggle or delete
type ArticleChangedMsg struct {
	Status string
	Err    error
}

// NotesLoadedMsg carries an article with its notes
type NotesLoadedMsg struct {
	Article *types.ArticleWithNotes
	Err     error
}
