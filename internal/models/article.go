// Package models defines the data exchanged with the news backend and carried between pages.
package models

// Article is a news item as returned by the backend. Every field is an opaque
// display string and is sent back to the backend untouched.
type Article struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	OriginalLink string `json:"originallink"`
	PubDate      string `json:"pubDate"`
}

// CloneArticles returns a copy of the slice so callers can keep it immutable.
func CloneArticles(articles []Article) []Article {
	if articles == nil {
		return nil
	}

	out := make([]Article, len(articles))
	copy(out, articles)

	return out
}
