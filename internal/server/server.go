// Package server hosts the live print preview.
//
// The server renders one sheet, either read from a markup file or built
// from command-line chips, and serves it as an HTML preview with paper,
// margin and zoom controls. Layout changes are saved through the prefs
// manager and trigger a new pass. With watching enabled, edits to the sheet
// file are picked up after a short debounce and pushed to open previews
// over a server-sent event stream.
package server

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/label"
	"github.com/matzehuels/iclabels/pkg/page"
	"github.com/matzehuels/iclabels/pkg/prefs"
	"github.com/matzehuels/iclabels/pkg/registry"
	"github.com/matzehuels/iclabels/pkg/render"
)

// Config holds the server dependencies.
type Config struct {
	// SheetPath is the markup file to render. When empty, Sheet is rendered.
	SheetPath string
	// Sheet is the fixed sheet, or the defaults for SheetPath.
	Sheet    *page.Sheet
	Registry *registry.Registry
	Prefs    *prefs.Manager
	Exporter *render.Exporter
	Addr     string
	Watch    bool
	Debounce time.Duration
	Guides   bool
	Scale    float64
	Logger   *log.Logger
}

// Server renders a sheet and serves it over HTTP.
type Server struct {
	cfg      Config
	logger   *log.Logger
	notifier *notifier

	// rebuildMu serializes whole rebuilds so a pass built from an older
	// layout never replaces a newer one.
	rebuildMu sync.Mutex

	mu    sync.RWMutex
	pass  *page.Pass
	state prefs.State
	err   error // last sheet load failure, shown instead of a stale page
}

// New creates a server and renders the first pass. A sheet file that fails
// to load is reported by the preview, not by New.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		cfg.Registry = registry.Default()
	}
	if cfg.Sheet == nil {
		cfg.Sheet = page.NewSheet()
	}
	if cfg.Prefs == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "server needs a prefs manager")
	}
	if cfg.Exporter == nil {
		cfg.Exporter = &render.Exporter{}
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = page.DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr)
	}
	s := &Server{cfg: cfg, logger: cfg.Logger, notifier: newNotifier()}
	if err := s.Rebuild(ctx); err != nil && cfg.SheetPath == "" {
		return nil, err
	}
	return s, nil
}

// Rebuild reloads the sheet, applies the saved layout and renders a new
// pass. Listeners are notified whether or not loading succeeded.
func (s *Server) Rebuild(ctx context.Context) error {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()
	defer s.notifier.broadcast()

	sheet, err := s.loadSheet()
	if err != nil {
		s.logger.Error("load sheet", "path", s.cfg.SheetPath, "err", err)
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return err
	}

	state, err := s.cfg.Prefs.Resolve(ctx, sheet)
	if err != nil {
		s.logger.Warn("load saved layout", "err", err)
	}

	pass := page.Render(ctx, sheet, s.cfg.Registry, page.Options{
		Notifier: func(req label.Request, err error) {
			s.logger.Warn("skipped chip", "chip", req.Name, "err", errors.UserMessage(err))
		},
	})
	s.logger.Debug("rendered sheet", "pass", pass.ID, "placed", pass.Placed(), "skipped", len(pass.Skipped), "took", pass.Duration)

	s.mu.Lock()
	s.pass, s.state, s.err = pass, state, nil
	s.mu.Unlock()
	return nil
}

func (s *Server) loadSheet() (*page.Sheet, error) {
	if s.cfg.SheetPath == "" {
		sheet := *s.cfg.Sheet
		sheet.Entries = slices.Clone(s.cfg.Sheet.Entries)
		return &sheet, nil
	}
	data, err := os.ReadFile(s.cfg.SheetPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read sheet %s", s.cfg.SheetPath)
	}
	return page.ParseMarkupWith(bytes.NewReader(data), s.cfg.Sheet)
}

// Current returns the latest pass and layout, or the load error.
func (s *Server) Current() (*page.Pass, prefs.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.state, s.err
	}
	return s.pass, s.state, nil
}

// Serve listens on the configured address and blocks until ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("serving preview", "url", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch && s.cfg.SheetPath != "" {
		eg.Go(func() error {
			return s.watch(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Debug("shutting down preview server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// watch rebuilds on changes to the sheet file. The parent directory is
// watched because editors often replace files instead of writing them.
func (s *Server) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(s.cfg.SheetPath)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		s.logger.Error("watch sheet directory", "dir", filepath.Dir(target), "err", err)
		return nil
	}

	deb := page.NewDebouncer(s.cfg.Debounce, func() {
		s.logger.Info("sheet changed, re-rendering", "file", s.cfg.SheetPath)
		_ = s.Rebuild(ctx)
	})
	defer deb.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if name, _ := filepath.Abs(event.Name); name != target {
				continue
			}
			deb.Trigger()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "err", err)
		}
	}
}
