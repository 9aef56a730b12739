// Package backend provides the client for the external search and summarization service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hexnews/internal/config"
	"hexnews/internal/logger"
	"hexnews/internal/models"
	"hexnews/pkg/utils"
)

// Backend endpoints.
const (
	SearchPath      = "/search"
	KeywordsPath    = "/keywords"
	SummaryPath     = "/summary"
	FinalReportPath = "/final_report"
)

// errorBodyWidth bounds the display width of a failed response body quoted
// in errors and logs.
const errorBodyWidth = 200

// Client errors.
var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrRequestFailed        = errors.New("backend request failed")
	ErrInvalidResponse      = errors.New("invalid backend response")
)

// Client defines the calls the explorer makes against the backend.
type Client interface {
	Search(ctx context.Context, query string) (*models.SearchResponse, error)
	Refine(ctx context.Context, queryList []string) (*models.SearchResponse, error)
	Keywords(ctx context.Context, articles []models.Article) ([]string, error)
	Summary(ctx context.Context, articles []models.Article) (string, error)
	FinalReport(ctx context.Context, keywords []string, summary string) (*models.FinalReport, error)
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// HTTPClient talks JSON over POST to the backend. It makes exactly one
// attempt per call.
type HTTPClient struct {
	httpClient *http.Client
	headers    *utils.HTTPHelper
	strs       *utils.StringHelper
	logger     *logger.Logger
	baseURL    string
	maxBytes   int64
}

// NewHTTPClient creates a backend client from configuration.
func NewHTTPClient(cfg config.BackendConfig, log *logger.Logger) *HTTPClient {
	maxBytes := cfg.GetMaxResponseBytes()
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		headers:  utils.NewHTTPHelper(),
		strs:     utils.NewStringHelper(),
		logger:   log,
		maxBytes: maxBytes,
	}
}

// Search runs the initial search for a free-text query.
func (c *HTTPClient) Search(ctx context.Context, query string) (*models.SearchResponse, error) {
	var resp models.SearchResponse
	if err := c.post(ctx, SearchPath, models.SearchRequest{Query: query}, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Refine re-runs the search filtered by the selected keywords.
func (c *HTTPClient) Refine(ctx context.Context, queryList []string) (*models.SearchResponse, error) {
	initial := false
	req := models.SearchRequest{QueryList: queryList, IsInitial: &initial}

	var resp models.SearchResponse
	if err := c.post(ctx, SearchPath, req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Keywords asks the backend to extract new keyword candidates from articles.
func (c *HTTPClient) Keywords(ctx context.Context, articles []models.Article) ([]string, error) {
	var resp models.KeywordsResponse
	if err := c.post(ctx, KeywordsPath, models.ArticlesRequest{Articles: nonNil(articles)}, &resp); err != nil {
		return nil, err
	}

	return resp.Keywords, nil
}

// Summary asks the backend to summarize articles.
func (c *HTTPClient) Summary(ctx context.Context, articles []models.Article) (string, error) {
	var resp models.SummaryResponse
	if err := c.post(ctx, SummaryPath, models.ArticlesRequest{Articles: nonNil(articles)}, &resp); err != nil {
		return "", err
	}

	return resp.Summary, nil
}

// FinalReport asks the backend to write the consolidated report.
func (c *HTTPClient) FinalReport(ctx context.Context, keywords []string, summary string) (*models.FinalReport, error) {
	if keywords == nil {
		keywords = []string{}
	}

	var resp models.FinalReport
	if err := c.post(ctx, FinalReportPath, models.FinalReportRequest{Keywords: keywords, Summary: summary}, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// post sends body as JSON to path and decodes the reply into out.
func (c *HTTPClient) post(ctx context.Context, path string, body, out any) (err error) {
	start := time.Now()
	log := c.log().With("endpoint", path)

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = c.headers.BuildHeaders(nil)

	log.Debug("calling backend", "bytes", len(jsonBody))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("backend unreachable", "error", err)
		return fmt.Errorf("%w: %s: %w", ErrRequestFailed, path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return fmt.Errorf("%w: %s: failed to read response: %w", ErrRequestFailed, path, err)
	}

	if !c.headers.IsSuccess(resp.StatusCode) {
		body := c.strs.TruncateString(string(data), errorBodyWidth)
		log.Error("backend returned error status", "status", resp.StatusCode, "body", body)

		return fmt.Errorf("%w: %s: %d: %s", ErrUnexpectedStatusCode, path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidResponse, path, err)
	}

	log.Debug("backend call complete", "status", resp.StatusCode, "duration", time.Since(start))

	return nil
}

func (c *HTTPClient) log() *logger.Logger {
	if c.logger == nil {
		return logger.Discard()
	}

	return c.logger
}

func nonNil(articles []models.Article) []models.Article {
	if articles == nil {
		return []models.Article{}
	}

	return articles
}
