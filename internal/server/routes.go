package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/observability"
	"github.com/matzehuels/iclabels/pkg/prefs"
	"github.com/matzehuels/iclabels/pkg/registry"
	"github.com/matzehuels/iclabels/pkg/render"
)

// Routes.
const (
	PrefsPath  = "/api/prefs"
	EventsPath = "/events"
)

// maxPrefsBody bounds layout updates.
const maxPrefsBody = 4 << 10

// Handler returns the HTTP handler of the preview.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		s.requestLogger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/", s.handlePreview)
	r.Get("/page.{format}", s.handlePage)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get(EventsPath, s.handleEvents)

	r.Route("/api", func(r chi.Router) {
		r.Get("/chips", s.handleChips)
		r.Get("/chips/{name}", s.handleChip)
		r.Get("/prefs", s.handleGetPrefs)
		r.Put("/prefs", s.handlePutPrefs)
		r.Delete("/prefs", s.handleResetPrefs)
	})
	return r
}

// requestLogger logs every request at debug level and reports it to the
// HTTP hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "took", time.Since(start))
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	p, state, err := s.Current()
	if err != nil {
		s.writeErrorPage(w, err)
		return
	}
	opts := []render.HTMLOption{
		render.WithTitle(s.title()),
		render.WithZoom(state.Zoom),
		render.WithControls(PrefsPath),
	}
	if s.cfg.Watch && s.cfg.SheetPath != "" {
		opts = append(opts, render.WithLiveReload(EventsPath))
	}
	if s.cfg.Guides {
		opts = append(opts, render.WithHTMLSVGOptions(render.WithGuides()))
	}
	out, err := render.RenderHTML(p, opts...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", render.FormatHTML.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(out)
}

func (s *Server) title() string {
	if s.cfg.SheetPath == "" {
		return "IC Labels"
	}
	return "IC Labels: " + s.cfg.SheetPath
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, state, err := s.Current()
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := s.cfg.Exporter.Export(r.Context(), p, format, render.Options{
		Guides: s.cfg.Guides || r.URL.Query().Has("guides"),
		Scale:  s.cfg.Scale,
		Zoom:   state.Zoom,
		Title:  s.title(),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	if r.URL.Query().Has("download") {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="labels%s"`, format.Ext()))
	}
	_, _ = w.Write(data)
}

type chipSummary struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Category    registry.Category `json:"category"`
	Package     string            `json:"package,omitempty"`
	Pins        int               `json:"pins"`
}

func (s *Server) handleChips(w http.ResponseWriter, r *http.Request) {
	reg := s.cfg.Registry
	var chips []registry.Chip
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		chips = reg.Search(q)
	} else {
		for _, name := range reg.Names() {
			c, _ := reg.Lookup(name)
			chips = append(chips, c)
		}
	}
	out := make([]chipSummary, 0, len(chips))
	for _, c := range chips {
		out = append(out, chipSummary{
			Name:        c.Name,
			Description: c.Description,
			Category:    c.Category,
			Package:     c.Package,
			Pins:        len(c.Pins),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleChip(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateChipName(name); err != nil {
		s.writeError(w, err)
		return
	}
	c, ok := s.cfg.Registry.Lookup(name)
	if !ok {
		s.writeError(w, errors.ChipNotFound(name))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleGetPrefs(w http.ResponseWriter, _ *http.Request) {
	_, state, _ := s.Current()
	writeJSON(w, http.StatusOK, state)
}

// handlePutPrefs saves a layout. Fields missing from the body keep their
// default values, as when a stored record is read.
func (s *Server) handlePutPrefs(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPrefsBody))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read layout"))
		return
	}
	state, ok := prefs.Decode(body)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "layout must be a JSON object with paper, margins or zoom"))
		return
	}
	if err := s.cfg.Prefs.Save(r.Context(), state); err != nil {
		s.writeError(w, err)
		return
	}
	s.afterPrefsChange(w, r)
}

func (s *Server) handleResetPrefs(w http.ResponseWriter, r *http.Request) {
	if _, err := s.cfg.Prefs.Reset(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	s.afterPrefsChange(w, r)
}

func (s *Server) afterPrefsChange(w http.ResponseWriter, r *http.Request) {
	if err := s.Rebuild(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	_, state, _ := s.Current()
	writeJSON(w, http.StatusOK, state)
}

// handleEvents streams a message for every new pass until the client goes
// away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	updates := s.notifier.subscribe()
	defer s.notifier.unsubscribe(updates)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-updates:
			p, _, err := s.Current()
			id := ""
			if err == nil {
				id = p.ID
			}
			_, _ = fmt.Fprintf(w, "event: message\ndata: %s\n\n", id)
			flusher.Flush()
		}
	}
}

var errorPage = template.Must(template.New("error").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: system-ui, sans-serif; padding: 2rem;">
<h1>Cannot render sheet</h1>
<pre style="color: #b00020; white-space: pre-wrap;">{{.Message}}</pre>
{{- if .LiveReload}}
<p>Waiting for the file to change...</p>
<script>new EventSource({{.LiveReload}}).onmessage = () => location.reload();</script>
{{- end}}
</body>
</html>
`))

// writeErrorPage shows a load failure in the browser. While watching, the
// page reloads once the sheet is fixed.
func (s *Server) writeErrorPage(w http.ResponseWriter, err error) {
	data := struct {
		Title, Message, LiveReload string
	}{Title: s.title(), Message: err.Error()}
	if s.cfg.Watch && s.cfg.SheetPath != "" {
		data.LiveReload = EventsPath
	}
	w.Header().Set("Content-Type", render.FormatHTML.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusFor(errors.GetCode(err)))
	_ = errorPage.Execute(w, data)
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeChipNotFound, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidSheet,
		errors.ErrCodeInvalidPaper, errors.ErrCodeInvalidMargins:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
