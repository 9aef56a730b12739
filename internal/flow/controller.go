package flow

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"hexnews/internal/backend"
	"hexnews/internal/keywords"
	"hexnews/internal/logger"
	"hexnews/internal/models"
)

// Flow errors.
var (
	ErrEmptyQuery  = errors.New("search query is empty")
	ErrNoSelection = errors.New("no keywords selected")
	ErrNoHistory   = errors.New("no confirmed summaries")
)

// Controller runs page transitions against the backend.
type Controller struct {
	backend      backend.Client
	logger       *logger.Logger
	maxSelection int
}

// NewController creates a controller. maxSelection bounds the active
// keyword set; non-positive values use keywords.DefaultMaxSelected.
func NewController(client backend.Client, log *logger.Logger, maxSelection int) *Controller {
	if log == nil {
		log = logger.Discard()
	}

	return &Controller{
		backend:      client,
		logger:       log.With("component", "flow"),
		maxSelection: maxSelection,
	}
}

// Search runs the initial query and opens the results page.
func (c *Controller) Search(ctx context.Context, query string) (ResultsState, error) {
	query = keywords.Normalize(query)
	if query == "" {
		return ResultsState{}, ErrEmptyQuery
	}

	resp, err := c.backend.Search(ctx, query)
	if err != nil {
		return ResultsState{}, fmt.Errorf("search %q: %w", query, err)
	}

	c.logger.Info("search complete", "query", query, "articles", len(resp.Articles), "keywords", len(resp.Keywords))

	articles := models.CloneArticles(resp.Articles)
	if articles == nil {
		articles = []models.Article{}
	}

	return ResultsState{
		query:       query,
		queryList:   []string{query},
		alert:       resp.Alert,
		original:    articles,
		articles:    articles,
		recommended: keywords.NewPool(resp.RecommendKeywords).Items(),
		pool:        keywords.NewPool(resp.Keywords),
		selection:   keywords.NewSelection(c.maxSelection),
	}, nil
}

// Toggle flips kw in the selection and refreshes the article list.
//
// A rejected toggle (unknown keyword, or a full selection) returns the state
// unchanged without contacting the backend. An empty selection restores the
// unfiltered articles without a call. If the refresh fails the whole state,
// selection included, stays as it was.
func (c *Controller) Toggle(ctx context.Context, st ResultsState, kw string) (ResultsState, keywords.ToggleResult, error) {
	next, result := c.Select(st, kw)
	if !result.Changed() {
		return st, result, nil
	}

	next, err := c.Refresh(ctx, next)
	if err != nil {
		return st, keywords.Rejected, err
	}

	return next, result, nil
}

// Select flips kw in the selection without contacting the backend. The
// returned state still shows the previous articles and reports Stale until
// Refresh runs on it.
func (c *Controller) Select(st ResultsState, kw string) (ResultsState, keywords.ToggleResult) {
	kw = keywords.Normalize(kw)
	if !st.pool.Contains(kw) {
		return st, keywords.Rejected
	}

	selection, result := st.selection.Toggle(kw)
	if !result.Changed() {
		c.logger.Debug("toggle rejected", "keyword", kw, "selected", selection.Len())
		return st, result
	}

	st.selection = selection
	st.stale = true

	return st, result
}

// Refresh brings the displayed articles in line with the selection. An
// empty selection restores the unfiltered articles without a call. A state
// that is not stale is returned as is.
func (c *Controller) Refresh(ctx context.Context, st ResultsState) (ResultsState, error) {
	if !st.stale {
		return st, nil
	}

	next := st
	next.stale = false

	if st.selection.IsEmpty() {
		next.articles = st.original
		next.alert = ""

		return next, nil
	}

	resp, err := c.backend.Refine(ctx, st.selection.Items())
	if err != nil {
		return st, fmt.Errorf("refine by %v: %w", st.selection.Items(), err)
	}

	next.articles = models.CloneArticles(resp.Articles)
	if next.articles == nil {
		next.articles = []models.Article{}
	}

	next.alert = resp.Alert

	c.logger.Info("refined", "keywords", st.selection.Items(), "articles", len(next.articles))

	return next, nil
}

// AddKeyword puts a user-typed keyword at the front of the pool. Blank and
// duplicate keywords are ignored and reported as false.
func (c *Controller) AddKeyword(st ResultsState, kw string) (ResultsState, bool) {
	pool, ok := st.pool.Prepend(kw)
	if !ok {
		return st, false
	}

	st.pool = pool

	return st, true
}

// Confirm extracts keywords and a summary for the displayed articles. The
// two backend calls run concurrently and either both land or neither does.
func (c *Controller) Confirm(ctx context.Context, st ResultsState) (ResultsState, error) {
	if st.selection.IsEmpty() {
		return st, ErrNoSelection
	}

	articles := st.Articles()

	var (
		extracted []string
		summary   string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		kws, err := c.backend.Keywords(gctx, articles)
		if err != nil {
			return fmt.Errorf("extract keywords: %w", err)
		}

		extracted = kws

		return nil
	})

	g.Go(func() error {
		s, err := c.backend.Summary(gctx, articles)
		if err != nil {
			return fmt.Errorf("summarize: %w", err)
		}

		summary = s

		return nil
	})

	if err := g.Wait(); err != nil {
		return st, err
	}

	next := st
	next.pool = st.pool.Append(extracted...)

	if summary != "" {
		next.summary = summary
		next.history = st.history.Append(models.SummaryRound{
			Keywords: st.selection.Items(),
			Summary:  summary,
		})
	}

	c.logger.Info("round confirmed", "keywords", st.selection.Items(), "new_candidates", next.pool.Len()-st.pool.Len(), "rounds", len(next.history))

	return next, nil
}

// Finish moves the accumulated history to the final page.
func (c *Controller) Finish(st ResultsState) (FinalState, error) {
	if len(st.history) == 0 {
		return FinalState{}, ErrNoHistory
	}

	return NewFinalState(st.history), nil
}

// GenerateReport asks the backend for a consolidated report built from the
// last round's keywords and summary.
func (c *Controller) GenerateReport(ctx context.Context, st FinalState) (FinalState, error) {
	last, ok := st.history.Last()
	if !ok {
		return st, ErrNoHistory
	}

	report, err := c.backend.FinalReport(ctx, last.Keywords, last.Summary)
	if err != nil {
		return st, fmt.Errorf("final report: %w", err)
	}

	next := st
	next.report = report

	c.logger.Info("final report generated", "keywords", last.Keywords, "definitions", len(report.Definitions))

	return next, nil
}
