package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"hexnews/internal/flow"
	"hexnews/internal/formatter"
	"hexnews/internal/hexgrid"
	"hexnews/internal/session"
	"hexnews/pkg/metadata"
)

// User-facing alert texts.
const (
	msgEmptyQuery  = "Enter a search term."
	msgNoSelection = "Select at least one keyword before confirming."
	msgNoHistory   = "Confirm at least one round before finishing."
	msgBackend     = "The news service could not complete the request. Please try again."
	msgExport      = "The report could not be exported. Please try again."
	maxFormBytes   = 1 << 20
)

type startView struct {
	Query string
	Error string
}

type resultsView struct {
	ID       string
	State    flow.ResultsState
	Grid     hexgrid.Grid
	Articles []articleView
	Error    string
}

type finalView struct {
	ID            string
	State         flow.FinalState
	HasReport     bool
	Report        template.HTML
	Definitions   []definition
	ExportEnabled bool
	Error         string
}

func alertFor(err error) (string, int) {
	switch {
	case errors.Is(err, flow.ErrEmptyQuery):
		return msgEmptyQuery, http.StatusBadRequest
	case errors.Is(err, flow.ErrNoSelection):
		return msgNoSelection, http.StatusBadRequest
	case errors.Is(err, flow.ErrNoHistory):
		return msgNoHistory, http.StatusBadRequest
	default:
		return msgBackend, http.StatusBadGateway
	}
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("s"); id != "" {
		s.store.Discard(id)
	}

	s.renderPage(w, http.StatusOK, "start", startView{})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	query := r.FormValue("query")

	if prev := r.FormValue("s"); prev != "" {
		s.store.Discard(prev)
	}

	st, err := s.controller.Search(r.Context(), query)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}

		s.logger.Warn("search failed", "query", query, "error", err)
		msg, status := alertFor(err)
		s.renderPage(w, status, "start", startView{Query: query, Error: msg})

		return
	}

	id := s.store.Create(st)
	redirect(w, r, "/results/"+id)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	id, st, ok := s.resultsState(w, r)
	if !ok {
		return
	}

	s.renderResults(w, http.StatusOK, id, st, "")
}

func (s *Server) renderResults(w http.ResponseWriter, status int, id string, st flow.ResultsState, alert string) {
	s.renderPage(w, status, "results", resultsView{
		ID:       id,
		State:    st,
		Grid:     st.Grid(),
		Articles: s.render.articles(st.Articles()),
		Error:    alert,
	})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	kw := toggleKeyword(r)

	s.transition(w, r, flow.PageResults, func(call *session.Call) (flow.State, error) {
		st, _ := call.State().(flow.ResultsState)

		// A toggle that superseded another one builds on its selection.
		if staged, ok := call.Staged().(flow.ResultsState); ok {
			st = staged
		}

		next, result := s.controller.Select(st, kw)
		s.logger.Debug("toggle", "session", id, "keyword", kw, "result", result)

		if !next.Stale() {
			return next, nil
		}

		if err := call.Stage(next); err != nil {
			return nil, err
		}

		return s.controller.Refresh(call.Context(), next)
	}, s.resultsAlert(w, id))
}

// toggleKeyword reads the keyword of a toggle. The no-script buttons post
// it as pick alongside the empty hidden field.
func toggleKeyword(r *http.Request) string {
	if kw := r.FormValue("pick"); kw != "" {
		return kw
	}

	return r.FormValue("keyword")
}

func (s *Server) handleAddKeyword(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	kw := r.FormValue("keyword")

	s.transition(w, r, flow.PageResults, func(call *session.Call) (flow.State, error) {
		st, _ := call.State().(flow.ResultsState)
		next, _ := s.controller.AddKeyword(st, kw)

		return next, nil
	}, s.resultsAlert(w, id))
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.transition(w, r, flow.PageResults, func(call *session.Call) (flow.State, error) {
		st, _ := call.State().(flow.ResultsState)
		return s.controller.Confirm(call.Context(), st)
	}, s.resultsAlert(w, id))
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.transition(w, r, flow.PageResults, func(call *session.Call) (flow.State, error) {
		st, _ := call.State().(flow.ResultsState)

		final, err := s.controller.Finish(st)
		if err != nil {
			return nil, err
		}

		return final, nil
	}, s.resultsAlert(w, id))
}

func (s *Server) resultsAlert(w http.ResponseWriter, id string) func(flow.State, error) {
	return func(st flow.State, err error) {
		rs, _ := st.(flow.ResultsState)
		msg, status := alertFor(err)
		s.renderResults(w, status, id, rs, msg)
	}
}

func (s *Server) finalAlert(w http.ResponseWriter, id string) func(flow.State, error) {
	return func(st flow.State, err error) {
		fs, _ := st.(flow.FinalState)
		msg, status := alertFor(err)
		s.renderFinal(w, status, "final", id, fs, msg)
	}
}

func (s *Server) handleFinal(w http.ResponseWriter, r *http.Request) {
	id, st, ok := s.finalState(w, r)
	if !ok {
		return
	}

	s.renderFinal(w, http.StatusOK, "final", id, st, "")
}

func (s *Server) renderFinal(w http.ResponseWriter, status int, page, id string, st flow.FinalState, alert string) {
	view := finalView{
		ID:            id,
		State:         st,
		ExportEnabled: s.exporter != nil,
		Error:         alert,
	}

	if report, ok := st.Report(); ok {
		view.HasReport = true
		view.Report = s.render.Markdown(report.Text)
		view.Definitions = definitions(report.Definitions)
	}

	s.renderPage(w, status, page, view)
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.transition(w, r, flow.PageFinal, func(call *session.Call) (flow.State, error) {
		st, _ := call.State().(flow.FinalState)
		return s.controller.GenerateReport(call.Context(), st)
	}, s.finalAlert(w, id))
}

func (s *Server) handleMemo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	memo := r.FormValue("memo")

	s.transition(w, r, flow.PageFinal, func(call *session.Call) (flow.State, error) {
		st, _ := call.State().(flow.FinalState)
		return st.WithMemo(memo), nil
	}, s.finalAlert(w, id))
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	id, st, ok := s.finalState(w, r)
	if !ok {
		return
	}

	s.renderFinal(w, http.StatusOK, "print", id, st, "")
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		http.NotFound(w, r)
		return
	}

	id, _, ok := s.finalState(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer

	pages, err := s.exporter.WritePDF(r.Context(), s.printURL(id), ReportSelector, &buf)
	if err != nil {
		s.logger.Error("pdf export failed", "session", id, "error", err)

		if st, getErr := s.store.Get(id); getErr == nil {
			if final, isFinal := st.(flow.FinalState); isFinal {
				s.renderFinal(w, http.StatusBadGateway, "final", id, final, msgExport)
				return
			}
		}

		redirect(w, r, "/")

		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.cfg.Export.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Report-Pages", strconv.Itoa(pages))
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	id, st, ok := s.finalState(w, r)
	if !ok {
		return
	}

	report, _ := st.Report()
	doc := formatter.Render(formatter.Report{
		Text:        report.Text,
		Definitions: report.Definitions,
		Rounds:      st.History(),
		Memo:        st.Memo(),
	}, metadata.Metadata{Generated: time.Now(), Session: id})

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="news-report.md"`)
	_, _ = w.Write([]byte(doc))
}

// transition runs step as a call on the session named in the path, which
// must be showing page. Every write to a session goes through here. A
// successful step commits its state and redirects to that state's page. A
// failed step calls onError with the state the call started from and leaves
// the session untouched. When a newer action superseded the call, or the
// session is on another page, the browser is sent to whatever the session
// shows now.
func (s *Server) transition(w http.ResponseWriter, r *http.Request, page flow.Page, step func(call *session.Call) (flow.State, error), onError func(st flow.State, err error)) {
	id := r.PathValue("id")

	call, err := s.store.Begin(r.Context(), id, page)
	if err != nil {
		if errors.Is(err, session.ErrWrongPage) {
			s.superseded(w, r, id)
			return
		}

		redirect(w, r, "/")

		return
	}
	defer call.Done()

	next, err := step(call)
	if err != nil {
		if call.Context().Err() != nil || errors.Is(err, session.ErrSuperseded) {
			s.superseded(w, r, id)
			return
		}

		if errors.Is(err, session.ErrNotFound) {
			redirect(w, r, "/")
			return
		}

		s.logger.Warn("action failed", "session", id, "path", r.URL.Path, "error", err)
		onError(call.State(), err)

		return
	}

	if err := call.Commit(next); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			redirect(w, r, "/")
			return
		}

		s.superseded(w, r, id)

		return
	}

	redirect(w, r, pagePath(id, next))
}

func (s *Server) superseded(w http.ResponseWriter, r *http.Request, id string) {
	if r.Context().Err() != nil {
		s.logger.Debug("client went away", "session", id, "path", r.URL.Path)
		return
	}

	st, err := s.store.Get(id)
	if err != nil {
		redirect(w, r, "/")
		return
	}

	redirect(w, r, pagePath(id, st))
}

func (s *Server) resultsState(w http.ResponseWriter, r *http.Request) (string, flow.ResultsState, bool) {
	id := r.PathValue("id")

	st, err := s.store.Get(id)
	if err != nil {
		redirect(w, r, "/")
		return "", flow.ResultsState{}, false
	}

	rs, ok := st.(flow.ResultsState)
	if !ok {
		redirect(w, r, pagePath(id, st))
		return "", flow.ResultsState{}, false
	}

	return id, rs, true
}

func (s *Server) finalState(w http.ResponseWriter, r *http.Request) (string, flow.FinalState, bool) {
	id := r.PathValue("id")

	st, err := s.store.Get(id)
	if err != nil {
		redirect(w, r, "/")
		return "", flow.FinalState{}, false
	}

	fs, ok := st.(flow.FinalState)
	if !ok {
		redirect(w, r, pagePath(id, st))
		return "", flow.FinalState{}, false
	}

	return id, fs, true
}
