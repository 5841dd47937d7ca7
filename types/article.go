package types

import (
	"net/url"
	"strings"
	"time"
)

// Field names shared by extraction rules, candidates and articles
const (
	FieldLink     = "link"
	FieldImage    = "image"
	FieldTitle    = "title"
	FieldCategory = "category"
	FieldSummary  = "summary"
)

// Article represents a single scraped article and the user state attached to it
type Article struct {
	ID        string    `json:"id"`
	Link      string    `json:"link"`
	Image     *string   `json:"image"`
	Title     *string   `json:"title"`
	Category  *string   `json:"category"`
	Summary   *string   `json:"summary"`
	Saved     bool      `json:"saved"`
	Notes     []string  `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ArticleFields is the input for creating an article
type ArticleFields struct {
	Link     string  `json:"link"`
	Image    *string `json:"image"`
	Title    *string `json:"title"`
	Category *string `json:"category"`
	Summary  *string `json:"summary"`
}

// ArticlePatch holds the optional fields of an article update.
// Nil fields are left untouched.
type ArticlePatch struct {
	Link     *string `json:"link,omitempty"`
	Image    *string `json:"image,omitempty"`
	Title    *string `json:"title,omitempty"`
	Category *string `json:"category,omitempty"`
	Summary  *string `json:"summary,omitempty"`
	Saved    *bool   `json:"saved,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p ArticlePatch) Empty() bool {
	return p.Link == nil && p.Image == nil && p.Title == nil &&
		p.Category == nil && p.Summary == nil && p.Saved == nil
}

// Apply copies the non-nil patch fields onto the article
func (p ArticlePatch) Apply(a *Article) {
	if p.Link != nil {
		a.Link = *p.Link
	}
	if p.Image != nil {
		a.Image = p.Image
	}
	if p.Title != nil {
		a.Title = p.Title
	}
	if p.Category != nil {
		a.Category = p.Category
	}
	if p.Summary != nil {
		a.Summary = p.Summary
	}
	if p.Saved != nil {
		a.Saved = *p.Saved
	}
}

// NoteBody is the caller supplied note payload. Its shape is not validated.
type NoteBody map[string]any

// Note is a free-form annotation attached to an article
type Note struct {
	ID        string    `json:"id"`
	Body      NoteBody  `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleWithNotes is an article with its note references resolved.
// MissingNotes lists references whose note no longer exists.
type ArticleWithNotes struct {
	Article
	ResolvedNotes []Note   `json:"resolved_notes"`
	MissingNotes  []string `json:"missing_notes,omitempty"`
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string or "" for nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// LinkKey normalizes a link so the same article URL compares equal across runs.
// Scheme and host are lowercased, the fragment and tracking parameters are
// dropped and a trailing slash is trimmed. Empty links have no key.
func LinkKey(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "fbclid" || lk == "gclid" {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	return strings.TrimRight(u.String(), "/")
}
