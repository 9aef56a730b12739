// Package flow implements the search → results → final page flow.
//
// Each page's state is an immutable value. Transitions take the current value
// and return the next one; on failure they return the input unchanged
// together with the error, so a caller can keep showing the prior page.
package flow

import (
	"slices"

	"hexnews/internal/hexgrid"
	"hexnews/internal/keywords"
	"hexnews/internal/models"
)

// Page identifies which screen a state belongs to.
type Page int

// Pages of the flow.
const (
	PageSearch Page = iota
	PageResults
	PageFinal
)

// String returns the page name.
func (p Page) String() string {
	switch p {
	case PageResults:
		return "results"
	case PageFinal:
		return "final"
	default:
		return "search"
	}
}

// State is implemented by every page state.
type State interface {
	Page() Page
}

var (
	_ State = SearchState{}
	_ State = ResultsState{}
	_ State = FinalState{}
)

// SearchState is the start page. Query is echoed back after a failed search.
type SearchState struct {
	Query string
}

// Page implements State.
func (SearchState) Page() Page { return PageSearch }

// ResultsState is the keyword exploration page.
type ResultsState struct {
	query       string
	alert       string
	summary     string
	queryList   []string
	original    []models.Article
	articles    []models.Article
	recommended []string
	history     models.SummaryHistory
	pool        keywords.Pool
	selection   keywords.Selection
	stale       bool
}

// Page implements State.
func (ResultsState) Page() Page { return PageResults }

// Query returns the free-text query that opened the page.
func (s ResultsState) Query() string { return s.query }

// QueryList returns the query list carried from the search page.
func (s ResultsState) QueryList() []string { return slices.Clone(s.queryList) }

// Alert returns the backend's informational message for the last search.
func (s ResultsState) Alert() string { return s.alert }

// Summary returns the most recent summary.
func (s ResultsState) Summary() string { return s.summary }

// Articles returns the currently displayed, possibly filtered, articles.
func (s ResultsState) Articles() []models.Article { return models.CloneArticles(s.articles) }

// OriginalArticles returns the unfiltered articles from the initial search.
func (s ResultsState) OriginalArticles() []models.Article { return models.CloneArticles(s.original) }

// Recommended returns keywords the backend suggested for the query.
func (s ResultsState) Recommended() []string { return slices.Clone(s.recommended) }

// Keywords returns the candidate pool in placement order.
func (s ResultsState) Keywords() []string { return s.pool.Items() }

// Selected returns the active keywords in toggle order.
func (s ResultsState) Selected() []string { return s.selection.Items() }

// Selection returns the active selection.
func (s ResultsState) Selection() keywords.Selection { return s.selection }

// History returns the confirmed rounds.
func (s ResultsState) History() models.SummaryHistory { return slices.Clone(s.history) }

// Stale reports whether the articles predate the current selection.
func (s ResultsState) Stale() bool { return s.stale }

// CanConfirm reports whether a confirm would be accepted.
func (s ResultsState) CanConfirm() bool { return !s.selection.IsEmpty() }

// CanFinish reports whether the final page is reachable.
func (s ResultsState) CanFinish() bool { return len(s.history) > 0 }

// Grid lays the candidate pool out on the hex grid.
func (s ResultsState) Grid() hexgrid.Grid {
	return hexgrid.Layout(s.pool.Items(), s.selection.Items())
}

// FinalState is the report page.
type FinalState struct {
	report  *models.FinalReport
	memo    string
	history models.SummaryHistory
}

// NewFinalState builds a final page from a history. A nil history is shown
// as empty.
func NewFinalState(history models.SummaryHistory) FinalState {
	return FinalState{history: slices.Clone(history)}
}

// Page implements State.
func (FinalState) Page() Page { return PageFinal }

// History returns the rounds carried from the results page.
func (s FinalState) History() models.SummaryHistory { return slices.Clone(s.history) }

// Memo returns the user's free-text notes.
func (s FinalState) Memo() string { return s.memo }

// Report returns the generated report, if any.
func (s FinalState) Report() (models.FinalReport, bool) {
	if s.report == nil {
		return models.FinalReport{}, false
	}

	return *s.report, true
}

// WithMemo returns a copy with the memo replaced.
func (s FinalState) WithMemo(memo string) FinalState {
	s.memo = memo
	return s
}
