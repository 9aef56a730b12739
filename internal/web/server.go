// Package web serves the explorer pages over HTTP.
package web

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"hexnews/internal/config"
	"hexnews/internal/export"
	"hexnews/internal/flow"
	"hexnews/internal/logger"
	"hexnews/internal/session"
)

// ReportSelector is the element on the print page that gets rasterized.
const ReportSelector = "#report"

// Options carries the server's collaborators.
type Options struct {
	Controller *flow.Controller
	Store      *session.Store
	// Exporter may be nil, in which case PDF export is disabled.
	Exporter *export.Exporter
	Config   *config.Config
	Logger   *logger.Logger
}

// Server is the HTTP front end of the explorer.
type Server struct {
	controller *flow.Controller
	store      *session.Store
	exporter   *export.Exporter
	cfg        *config.Config
	logger     *logger.Logger
	render     *Renderer
	templates  *template.Template
}

// NewServer creates a server.
func NewServer(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	exporter := opts.Exporter
	if !cfg.Export.Enabled {
		exporter = nil
	}

	return &Server{
		controller: opts.Controller,
		store:      opts.Store,
		exporter:   exporter,
		cfg:        cfg,
		logger:     log,
		render:     NewRenderer(),
		templates:  parseTemplates(),
	}
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleStart)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("GET /results/{id}", s.handleResults)
	mux.HandleFunc("POST /results/{id}/toggle", s.handleToggle)
	mux.HandleFunc("POST /results/{id}/keywords", s.handleAddKeyword)
	mux.HandleFunc("POST /results/{id}/confirm", s.handleConfirm)
	mux.HandleFunc("POST /results/{id}/finish", s.handleFinish)
	mux.HandleFunc("GET /final/{id}", s.handleFinal)
	mux.HandleFunc("POST /final/{id}/report", s.handleGenerateReport)
	mux.HandleFunc("POST /final/{id}/memo", s.handleMemo)
	mux.HandleFunc("GET /final/{id}/print", s.handlePrint)
	mux.HandleFunc("GET /final/{id}/report.pdf", s.handlePDF)
	mux.HandleFunc("GET /final/{id}/report.md", s.handleMarkdown)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	return s.logRequests(s.recoverPanics(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("listening", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down")

	return srv.Shutdown(shutdownCtx)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("failed to render page", "page", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func pagePath(id string, st flow.State) string {
	switch st.Page() {
	case flow.PageResults:
		return "/results/" + id
	case flow.PageFinal:
		return "/final/" + id
	default:
		return "/"
	}
}

func (s *Server) printURL(id string) string {
	return strings.TrimRight(s.cfg.Server.PublicURL, "/") + "/final/" + id + "/print"
}
