package web

import "html/template"

const layoutTemplate = `{{define "head"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.}} · hexnews</title>
  <style>` + styleSheet + `</style>
</head>
<body>
<div class="loading" id="loading" hidden>Loading…</div>
{{end}}

{{define "foot"}}
<script>` + script + `</script>
</body>
</html>{{end}}

{{define "error"}}{{if .}}<div class="alert" role="alert">{{.}}</div>{{end}}{{end}}
`

const startTemplate = `{{define "start"}}{{template "head" "Search"}}
<main class="start">
  <h1>News Explorer</h1>
  {{template "error" .Error}}
  <form method="post" action="/search" class="search">
    <input type="text" name="query" value="{{.Query}}" placeholder="Search the news" autofocus required>
    <button type="submit">Search</button>
  </form>
</main>
{{template "foot"}}{{end}}
`

const resultsTemplate = `{{define "results"}}{{template "head" .State.Query}}
<main class="results">
  <header>
    <a href="/?s={{.ID}}" class="restart">New search</a>
    <h1>{{.State.Query}}</h1>
  </header>
  {{template "error" .Error}}
  {{with .State.Alert}}<div class="notice" role="status">{{.}}</div>{{end}}

  <section class="keywords">
    <form method="post" action="/results/{{.ID}}/toggle" id="toggle-form">
      <input type="hidden" name="keyword" id="toggle-keyword">
      <svg class="hexgrid" viewBox="{{.Grid.ViewBox}}" role="group" aria-label="Keywords">
        {{range .Grid.Slots}}{{if .Assigned}}
        <g class="cell{{if .Selected}} selected{{end}}" data-keyword="{{.Keyword}}" tabindex="0" role="button" aria-pressed="{{.Selected}}">
          <title>{{.Keyword}}</title>
          <polygon points="{{.Points}}"></polygon>
          <text x="{{.Center.X}}" y="{{.Center.Y}}" font-size="{{.FontSize}}" text-anchor="middle" dominant-baseline="central">{{.Label}}</text>
        </g>{{else}}
        <polygon class="cell empty" points="{{.Points}}"></polygon>{{end}}{{end}}
      </svg>
      <noscript>
        <ul class="keyword-list">
          {{range .Grid.Assigned}}<li><button type="submit" name="pick" value="{{.Keyword}}"{{if .Selected}} class="selected"{{end}}>{{.Keyword}}</button></li>{{end}}
        </ul>
      </noscript>
    </form>

    <p class="selected-list">Selected ({{len .State.Selected}}/{{.State.Selection.Limit}}):
      {{range .State.Selected}}<span class="chip">{{.}}</span>{{else}}<span class="muted">none</span>{{end}}
    </p>

    <form method="post" action="/results/{{.ID}}/keywords" class="add-keyword">
      <input type="text" name="keyword" placeholder="Add a keyword">
      <button type="submit">Add</button>
    </form>

    {{with .State.Recommended}}
    <form method="post" action="/results/{{$.ID}}/keywords" class="recommended">
      <span>Suggested:</span>
      {{range .}}<button type="submit" name="keyword" value="{{.}}">{{.}}</button>{{end}}
    </form>
    {{end}}

    <div class="actions">
      <form method="post" action="/results/{{.ID}}/confirm">
        <button type="submit"{{if not .State.CanConfirm}} disabled{{end}}>Confirm</button>
      </form>
      <form method="post" action="/results/{{.ID}}/finish">
        <button type="submit"{{if not .State.CanFinish}} disabled{{end}}>Finish</button>
      </form>
    </div>
  </section>

  <section class="articles">
    <h2>{{len .Articles}} articles</h2>
    <ol>
      {{range .Articles}}
      <li>
        <a href="{{.Link}}" target="_blank" rel="noopener noreferrer">{{.Title}}</a>
        <time title="{{.PubDate}}">{{.Age}}</time>
        <p>{{.Description}}</p>
      </li>
      {{end}}
    </ol>
  </section>

  {{with .State.Summary}}
  <footer class="summary">
    <h2>Summary</h2>
    <p>{{.}}</p>
  </footer>
  {{end}}
</main>
{{template "foot"}}{{end}}
`

const reportTemplate = `{{define "report"}}
<article id="report" class="report">
  {{if .HasReport}}
  <div class="report-body">{{.Report}}</div>
  {{with .Definitions}}
  <h2>Definitions</h2>
  <dl>{{range .}}<dt>{{.Term}}</dt><dd>{{.Meaning}}</dd>{{end}}</dl>
  {{end}}
  {{else}}
  <p class="muted">No report generated yet.</p>
  {{end}}
  <h2>Summary history</h2>
  <ol class="rounds">
    {{range .State.History}}
    <li><p class="round-keywords">{{range $i, $k := .Keywords}}{{if $i}}, {{end}}{{$k}}{{end}}</p><p>{{.Summary}}</p></li>
    {{end}}
  </ol>
</article>
{{end}}
`

const finalTemplate = `{{define "final"}}{{template "head" "Report"}}
<main class="final">
  <header>
    <a href="/?s={{.ID}}" class="restart">New search</a>
    <h1>Report</h1>
  </header>
  {{template "error" .Error}}

  <div class="actions">
    <form method="post" action="/final/{{.ID}}/report">
      <button type="submit">{{if .HasReport}}Regenerate report{{else}}Generate report{{end}}</button>
    </form>
    {{if .ExportEnabled}}<a class="button" href="/final/{{.ID}}/report.pdf">Download PDF</a>{{end}}
    <a class="button" href="/final/{{.ID}}/report.md">Download Markdown</a>
  </div>

  {{template "report" .}}

  <section class="memo">
    <h2>Memo</h2>
    <form method="post" action="/final/{{.ID}}/memo">
      <textarea name="memo" id="memo" rows="8">{{.State.Memo}}</textarea>
      <button type="submit">Save</button>
      <button type="button" id="copy-memo">Copy</button>
    </form>
  </section>
</main>
{{template "foot"}}{{end}}
`

const printTemplate = `{{define "print"}}{{template "head" "Report"}}
{{template "report" .}}
</body>
</html>{{end}}
`

const styleSheet = `
body { font-family: system-ui, sans-serif; margin: 0; color: #212529; }
main { max-width: 960px; margin: 0 auto; padding: 1rem; }
.alert { background: #fff3f3; border: 1px solid #e03131; padding: .75rem; margin: 1rem 0; }
.notice { background: #f1f3f5; padding: .5rem .75rem; margin: .5rem 0; }
.loading { position: fixed; inset: 0; background: rgba(255,255,255,.7); display: flex; align-items: center; justify-content: center; font-size: 1.5rem; }
.loading[hidden] { display: none; }
.hexgrid { width: 100%; max-height: 60vh; }
.hexgrid .cell polygon { fill: #e7f5ff; stroke: #228be6; stroke-width: .4; cursor: pointer; }
.hexgrid .cell.selected polygon { fill: #228be6; }
.hexgrid .cell.selected text { fill: #fff; }
.hexgrid .cell.empty { fill: #f8f9fa; stroke: #dee2e6; stroke-width: .3; }
.hexgrid text { pointer-events: none; }
.chip { background: #228be6; color: #fff; border-radius: 1rem; padding: 0 .5rem; margin-right: .25rem; }
.muted { color: #868e96; }
.actions { display: flex; gap: .5rem; margin: 1rem 0; }
.summary { border-top: 1px solid #dee2e6; margin-top: 2rem; }
.report { background: #fff; padding: 1rem; }
`

const script = `
window.addEventListener('pageshow', function () {
  document.getElementById('loading').hidden = true;
});
document.querySelectorAll('form').forEach(function (f) {
  f.addEventListener('submit', function () {
    document.getElementById('loading').hidden = false;
  });
});
var toggleForm = document.getElementById('toggle-form');
if (toggleForm) {
  document.querySelectorAll('.hexgrid [data-keyword]').forEach(function (cell) {
    var submit = function () {
      document.getElementById('toggle-keyword').value = cell.dataset.keyword;
      document.getElementById('loading').hidden = false;
      toggleForm.submit();
    };
    cell.addEventListener('click', submit);
    cell.addEventListener('keydown', function (e) {
      if (e.key === 'Enter' || e.key === ' ') { e.preventDefault(); submit(); }
    });
  });
}
var copy = document.getElementById('copy-memo');
if (copy) {
  copy.addEventListener('click', function () {
    navigator.clipboard.writeText(document.getElementById('memo').value).then(function () {
      copy.textContent = 'Copied';
      setTimeout(function () { copy.textContent = 'Copy'; }, 1500);
    }, function () {
      alert('Could not copy the memo.');
    });
  });
}
`

func parseTemplates() *template.Template {
	t := template.New("pages")
	for _, src := range []string{layoutTemplate, startTemplate, resultsTemplate, reportTemplate, finalTemplate, printTemplate} {
		template.Must(t.Parse(src))
	}

	return t
}
