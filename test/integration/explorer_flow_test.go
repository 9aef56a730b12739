package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"hexnews/internal/backend"
	"hexnews/internal/config"
	"hexnews/internal/flow"
	"hexnews/internal/logger"
	"hexnews/internal/session"
	"hexnews/internal/validator"
	"hexnews/internal/web"
)

// newsBackend answers like the real service for a small fixed corpus.
func newsBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /search", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string   `json:"query"`
			QueryList []string `json:"query_list"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		title := "General: " + req.Query
		if len(req.QueryList) > 0 {
			title = "Filtered: " + strings.Join(req.QueryList, "+")
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"articles": []map[string]string{{"title": title, "description": "desc", "originallink": "https://n.example/a", "pubDate": "Mon, 02 Jun 2025 10:00:00 +0900"}},
			"keywords": []string{"economy", "election", "climate", "energy"},
		})
	})

	mux.HandleFunc("POST /keywords", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"keywords": ["grid", "economy"]}`)
	})

	mux.HandleFunc("POST /summary", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Articles []struct {
				Title string `json:"title"`
			} `json:"articles"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		titles := make([]string, len(req.Articles))
		for i, a := range req.Articles {
			titles[i] = a.Title
		}

		_ = json.NewEncoder(w).Encode(map[string]string{"summary": "About " + strings.Join(titles, "; ")})
	})

	mux.HandleFunc("POST /final_report", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"final_report": "## Findings\n\nEnergy prices drive the debate.", "definitions": {"grid": "power network"}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func explorer(t *testing.T, backendURL string) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.Backend.BaseURL = backendURL
	cfg.Export.Enabled = false

	log := logger.Discard()

	s := web.NewServer(web.Options{
		Controller: flow.NewController(backend.NewHTTPClient(cfg.Backend, log), log, cfg.Session.MaxSelection),
		Store:      session.NewStore(cfg.Session.GetIdleTTL(), log),
		Config:     cfg,
		Logger:     log,
	})

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return srv
}

type browser struct {
	t      *testing.T
	client *http.Client
	base   string
	page   string
}

func newBrowser(t *testing.T, base string) *browser {
	jar, _ := cookiejar.New(nil)

	return &browser{t: t, base: base, client: &http.Client{Jar: jar, Timeout: 10 * time.Second}}
}

func (b *browser) read(resp *http.Response, err error) string {
	b.t.Helper()

	if err != nil {
		b.t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		b.t.Fatalf("read failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		b.t.Fatalf("%s: status %d\n%s", resp.Request.URL, resp.StatusCode, body)
	}

	b.page = resp.Request.URL.Path

	return string(body)
}

func (b *browser) get(path string) string {
	b.t.Helper()
	return b.read(b.client.Get(b.base + path))
}

func (b *browser) post(path string, form url.Values) string {
	b.t.Helper()
	return b.read(b.client.PostForm(b.base+path, form))
}

func TestExplorerFlow(t *testing.T) {
	api := newsBackend(t)
	app := explorer(t, api.URL)
	b := newBrowser(t, app.URL)

	// 1. Search
	body := b.post("/search", url.Values{"query": {"energy policy"}})
	if !strings.HasPrefix(b.page, "/results/") || !strings.Contains(body, "General: energy policy") {
		t.Fatalf("Expected results page, landed on %s", b.page)
	}

	results := b.page
	id := strings.TrimPrefix(results, "/results/")

	// 2. Narrow by two keywords, try a fourth past the limit
	for _, kw := range []string{"energy", "climate", "economy", "election"} {
		body = b.post(results+"/toggle", url.Values{"keyword": {kw}})
	}

	if !strings.Contains(body, "Filtered: energy+climate+economy") {
		t.Errorf("Expected the fourth toggle to be ignored:\n%s", body)
	}

	// 3. Confirm a round
	body = b.post(results+"/confirm", url.Values{})
	if !strings.Contains(body, "About Filtered: energy+climate+economy") {
		t.Errorf("Expected summary of the filtered articles:\n%s", body)
	}

	if !strings.Contains(body, `data-keyword="grid"`) {
		t.Error("Expected the extracted keyword in the grid")
	}

	// 4. Final page and report
	body = b.post(results+"/finish", url.Values{})
	if b.page != "/final/"+id {
		t.Fatalf("Expected final page, landed on %s", b.page)
	}

	body = b.post("/final/"+id+"/report", url.Values{})
	if !strings.Contains(body, "<h2>Findings</h2>") || !strings.Contains(body, "power network") {
		t.Errorf("Expected rendered report:\n%s", body)
	}

	b.post("/final/"+id+"/memo", url.Values{"memo": {"ask about grid upgrades"}})

	// 5. Markdown export passes the report checker
	md := b.get("/final/" + id + "/report.md")

	result := validator.ValidateReport(md)
	if !result.IsValid || result.Stats.TableRows != 1 || !result.Stats.HasMemo {
		t.Errorf("exported report failed validation: %s %+v\n%s", result, result.Errors, md)
	}

	// 6. Start over drops the session
	b.get("/?s=" + id)
	b.get(results)

	if b.page != "/" {
		t.Errorf("Expected discarded session to land on start, got %s", b.page)
	}
}
