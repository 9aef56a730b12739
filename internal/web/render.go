package web

import (
	"bytes"
	"html"
	"html/template"
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"hexnews/internal/models"
	"hexnews/pkg/utils"
)

// Renderer converts backend text into display-safe values.
type Renderer struct {
	strict   *bluemonday.Policy
	ugc      *bluemonday.Policy
	markdown goldmark.Markdown
	strs     *utils.StringHelper
	now      func() time.Time
}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		strict:   bluemonday.StrictPolicy(),
		ugc:      bluemonday.UGCPolicy(),
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		strs:     utils.NewStringHelper(),
		now:      time.Now,
	}
}

// PlainText strips markup from news API text (titles often carry <b> tags
// and entities) and returns it unescaped. html/template escapes it again on
// output.
func (r *Renderer) PlainText(s string) string {
	return r.strs.NormalizeWhitespace(html.UnescapeString(r.strict.Sanitize(s)))
}

// Age formats a pubDate as a relative age. Unparseable dates are returned
// as-is.
func (r *Renderer) Age(pubDate string) string {
	t, err := dateparse.ParseAny(strings.TrimSpace(pubDate))
	if err != nil {
		return pubDate
	}

	return humanize.RelTime(t, r.now(), "ago", "from now")
}

// Markdown renders report markdown to sanitized HTML.
func (r *Renderer) Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}

	// #nosec G203 -- sanitized by the UGC policy.
	return template.HTML(r.ugc.SanitizeBytes(buf.Bytes()))
}

type articleView struct {
	Title       string
	Description string
	Link        string
	PubDate     string
	Age         string
}

func (r *Renderer) articles(in []models.Article) []articleView {
	out := make([]articleView, len(in))
	for i, a := range in {
		out[i] = articleView{
			Title:       r.PlainText(a.Title),
			Description: r.PlainText(a.Description),
			Link:        a.OriginalLink,
			PubDate:     a.PubDate,
			Age:         r.Age(a.PubDate),
		}
	}

	return out
}

type definition struct {
	Term    string
	Meaning string
}

func definitions(defs map[string]string) []definition {
	terms := make([]string, 0, len(defs))
	for term := range defs {
		terms = append(terms, term)
	}

	slices.Sort(terms)

	out := make([]definition, len(terms))
	for i, term := range terms {
		out[i] = definition{Term: term, Meaning: defs[term]}
	}

	return out
}
