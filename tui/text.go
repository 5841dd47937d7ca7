package tui

// UI text
const (
	TextTitle      = "newsnotes"
	TextScraping   = "Scraping source..."
	TextLoading    = "Loading..."
	TextEmptyInbox = "Inbox is empty. Press 'r' to scrape."
	TextEmptySaved = "No saved articles yet."
	TextNoNotes    = "No notes on this article."

	TextFooterList   = "↑/↓ move | tab inbox/saved | enter notes | s save/unsave | d delete | r scrape | q quit"
	TextFooterDetail = "esc back | q quit"
)
