package render

import (
	"bytes"
	"html/template"
	"math"

	"github.com/matzehuels/iclabels/pkg/page"
)

// Zoom limits of the preview.
const (
	MinZoom     = 0.5
	MaxZoom     = 2.0
	DefaultZoom = 1.0
)

// ClampZoom limits z to [MinZoom, MaxZoom]. Non-finite values give
// DefaultZoom.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return DefaultZoom
	}
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

// HTMLOption configures HTML rendering via [RenderHTML].
type HTMLOption func(*htmlRenderer)

type htmlRenderer struct {
	title      string
	zoom       float64
	controls   string
	liveReload string
	svgOpts    []SVGOption
}

// WithTitle sets the document title.
func WithTitle(t string) HTMLOption { return func(r *htmlRenderer) { r.title = t } }

// WithZoom scales the on-screen paper. Printing is never scaled.
func WithZoom(z float64) HTMLOption { return func(r *htmlRenderer) { r.zoom = ClampZoom(z) } }

// WithControls adds the paper, margin and zoom toolbar. Changes are posted
// as JSON to prefsURL and the page reloads.
func WithControls(prefsURL string) HTMLOption {
	return func(r *htmlRenderer) { r.controls = prefsURL }
}

// WithLiveReload reloads the page on every message of the event stream at
// url.
func WithLiveReload(url string) HTMLOption { return func(r *htmlRenderer) { r.liveReload = url } }

// WithHTMLSVGOptions passes options through to the embedded SVG.
func WithHTMLSVGOptions(opts ...SVGOption) HTMLOption {
	return func(r *htmlRenderer) { r.svgOpts = opts }
}

type htmlData struct {
	Title      string
	PrintCSS   template.CSS
	Paper      page.Paper
	Papers     []page.Paper
	Margins    page.Margins
	Zoom       float64
	ZoomPct    int
	SVG        template.HTML
	Controls   string
	LiveReload string
	Placed     int
	Skipped    []page.Skip
	MinZoom    float64
	MaxZoom    float64
}

// RenderHTML renders a self-contained print preview of the pass.
func RenderHTML(p *page.Pass, opts ...HTMLOption) ([]byte, error) {
	r := htmlRenderer{title: "IC Labels", zoom: DefaultZoom}
	for _, opt := range opts {
		opt(&r)
	}
	data := htmlData{
		Title:      r.title,
		PrintCSS:   template.CSS(p.Paper.PrintCSS()),
		Paper:      p.Paper,
		Papers:     page.Papers,
		Margins:    p.Margins,
		Zoom:       r.zoom,
		ZoomPct:    int(math.Round(r.zoom * 100)),
		SVG:        template.HTML(RenderSVG(p, r.svgOpts...)),
		Controls:   r.controls,
		LiveReload: r.liveReload,
		Placed:     p.Placed(),
		Skipped:    p.Skipped,
		MinZoom:    MinZoom,
		MaxZoom:    MaxZoom,
	}
	var buf bytes.Buffer
	if err := previewTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var previewTemplate = template.Must(template.New("preview").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 0; background: #e8e8e8; font-family: system-ui, sans-serif; }
  header { display: flex; flex-wrap: wrap; gap: 1rem; align-items: center; padding: .5rem 1rem; background: #fff; border-bottom: 1px solid #ccc; }
  header label { font-size: .85rem; }
  header input[type=number] { width: 4.5rem; }
  .warn { color: #b00020; font-size: .85rem; }
  .paper-wrap { padding: 1.5rem; overflow: auto; }
  .paper { margin: 0 auto; width: {{.Paper.Width}}mm; height: {{.Paper.Height}}mm; background: #fff;
           box-shadow: 0 2px 10px rgba(0,0,0,.25); transform: scale({{.Zoom}}); transform-origin: top center; }
  .paper > svg { display: block; }
  @media print {
    body { background: none; }
    header, .warn { display: none; }
    .paper-wrap { padding: 0; }
    .paper { box-shadow: none; transform: none; }
  }
  {{.PrintCSS}}
</style>
</head>
<body>
{{- if .Controls}}
<header>
  <label>Paper
    <select id="paper">{{range .Papers}}
      <option value="{{.Name}}"{{if eq .Name $.Paper.Name}} selected{{end}}>{{.Name}} ({{.Width}} × {{.Height}} mm)</option>{{end}}
    </select>
  </label>
  <label>Top <input id="top" type="number" min="0" step="0.1" value="{{.Margins.Top}}"></label>
  <label>Right <input id="right" type="number" min="0" step="0.1" value="{{.Margins.Right}}"></label>
  <label>Bottom <input id="bottom" type="number" min="0" step="0.1" value="{{.Margins.Bottom}}"></label>
  <label>Left <input id="left" type="number" min="0" step="0.1" value="{{.Margins.Left}}"></label>
  <label>Zoom <input id="zoom" type="range" min="{{.MinZoom}}" max="{{.MaxZoom}}" step="0.05" value="{{.Zoom}}"> <span>{{.ZoomPct}}%</span></label>
  <button id="reset" type="button">Reset Layout</button>
  <button type="button" onclick="window.print()">Print</button>
  <span>{{.Placed}} labels</span>
</header>
{{- end}}
{{- range .Skipped}}
<p class="warn">Unknown chip "{{.Name}}" skipped.</p>
{{- end}}
<div class="paper-wrap"><div class="paper">
{{.SVG}}
</div></div>
{{- if .Controls}}
<script>
(function () {
  const url = {{.Controls}};
  const ids = ["paper", "top", "right", "bottom", "left", "zoom"];
  function save(body) {
    fetch(url, { method: body ? "PUT" : "DELETE", headers: { "Content-Type": "application/json" }, body: body ? JSON.stringify(body) : undefined })
      .then(() => location.reload());
  }
  function current() {
    const v = id => document.getElementById(id).value;
    return {
      paper: v("paper"),
      margins: { top: +v("top"), right: +v("right"), bottom: +v("bottom"), left: +v("left") },
      zoom: +v("zoom"),
    };
  }
  ids.forEach(id => document.getElementById(id).addEventListener("change", () => save(current())));
  document.getElementById("reset").addEventListener("click", () => save(null));
})();
</script>
{{- end}}
{{- if .LiveReload}}
<script>new EventSource({{.LiveReload}}).onmessage = () => location.reload();</script>
{{- end}}
</body>
</html>
`))
