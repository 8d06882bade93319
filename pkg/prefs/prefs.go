// Package prefs persists the last used layout: paper, margins and preview
// zoom.
//
// The record is stored as JSON under a single key in a small key-value
// [Store]. Backends:
//   - [FileStore]: JSON files under ~/.config/iclabels (CLI default)
//   - [RedisStore]: shared preview servers
//   - [MongoStore]: shared preview servers with an existing MongoDB
//
// Loading never fails because of bad data: an absent or corrupt record
// yields [Defaults].
package prefs

import (
	"context"
	"encoding/json"
	"math"

	"github.com/matzehuels/iclabels/pkg/page"
)

// Key is the storage key of the layout record.
const Key = "icLabelCreator:lastState"

// Zoom limits.
const (
	MinZoom     = 0.5
	MaxZoom     = 2.0
	DefaultZoom = 1.0
)

// State is the persisted layout.
type State struct {
	Paper   string       `json:"paper"`
	Margins page.Margins `json:"margins"`
	Zoom    float64      `json:"zoom"`
}

// Defaults returns Letter paper, 10mm margins and zoom 1.
func Defaults() State {
	return State{Paper: page.DefaultPaper.Name, Margins: page.DefaultMargins, Zoom: DefaultZoom}
}

// FromSheet takes the paper and margins of a sheet at default zoom.
func FromSheet(s *page.Sheet) State {
	return State{Paper: s.Paper.Name, Margins: s.Margins, Zoom: DefaultZoom}
}

// Normalize maps the paper name to a preset and clamps zoom.
func (s State) Normalize() State {
	s.Paper = page.ParsePaper(s.Paper).Name
	s.Zoom = ClampZoom(s.Zoom)
	return s
}

// ClampZoom limits z to [MinZoom, MaxZoom]; zero and non-finite values
// give DefaultZoom.
func ClampZoom(z float64) float64 {
	if z == 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return DefaultZoom
	}
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

// Apply sets the sheet's paper and margins from s.
func (s State) Apply(sheet *page.Sheet) {
	sheet.Paper = page.ParsePaper(s.Paper)
	sheet.Margins = s.Margins
}

// Decode parses a stored record. It reports false, with Defaults, when
// data is empty, corrupt, or carries none of the fields.
func Decode(data []byte) (State, bool) {
	if len(data) == 0 {
		return Defaults(), false
	}
	var raw struct {
		Paper   *string       `json:"paper"`
		Margins *page.Margins `json:"margins"`
		Zoom    *float64      `json:"zoom"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Defaults(), false
	}
	if raw.Paper == nil && raw.Margins == nil && raw.Zoom == nil {
		return Defaults(), false
	}
	s := Defaults()
	if raw.Paper != nil {
		s.Paper = *raw.Paper
	}
	if raw.Margins != nil {
		s.Margins = *raw.Margins
	}
	if raw.Zoom != nil {
		s.Zoom = *raw.Zoom
	}
	return s.Normalize(), true
}

// Encode serializes s.
func Encode(s State) ([]byte, error) {
	return json.Marshal(s.Normalize())
}

// Store is a minimal key-value store for preference records.
type Store interface {
	// Get returns the value and true, or false when the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Manager reads and writes the layout record in a Store.
type Manager struct {
	store Store
	key   string
}

// NewManager returns a manager using the standard Key.
func NewManager(store Store) *Manager {
	return &Manager{store: store, key: Key}
}

// Load returns the saved layout and whether one was found. Corrupt records
// read as not found.
func (m *Manager) Load(ctx context.Context) (State, bool, error) {
	data, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		return Defaults(), false, err
	}
	if !ok {
		return Defaults(), false, nil
	}
	s, ok := Decode(data)
	return s, ok, nil
}

// Save stores s after normalizing it.
func (m *Manager) Save(ctx context.Context, s State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, m.key, data)
}

// Reset stores the defaults.
func (m *Manager) Reset(ctx context.Context) (State, error) {
	d := Defaults()
	return d, m.Save(ctx, d)
}

// Resolve applies the saved layout to sheet when one exists and returns
// the effective state. Without a saved layout the sheet keeps its own
// paper and margins.
func (m *Manager) Resolve(ctx context.Context, sheet *page.Sheet) (State, error) {
	s, ok, err := m.Load(ctx)
	if err != nil {
		return FromSheet(sheet), err
	}
	if !ok {
		return FromSheet(sheet), nil
	}
	s.Apply(sheet)
	return s, nil
}

// Close closes the underlying store.
func (m *Manager) Close() error { return m.store.Close() }
