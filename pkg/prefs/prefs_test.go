package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/iclabels/pkg/page"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		want   State
		wantOK bool
	}{
		{"empty", "", Defaults(), false},
		{"corrupt", "{not json", Defaults(), false},
		{"no fields", `{"other": 1}`, Defaults(), false},
		{
			"full",
			`{"paper":"A4","margins":{"top":5,"right":6,"bottom":7,"left":8},"zoom":1.5}`,
			State{Paper: "A4", Margins: page.Margins{Top: 5, Right: 6, Bottom: 7, Left: 8}, Zoom: 1.5},
			true,
		},
		{"zoom clamped high", `{"zoom": 9}`, State{Paper: "Letter", Margins: page.DefaultMargins, Zoom: 2}, true},
		{"zoom clamped low", `{"zoom": 0.1}`, State{Paper: "Letter", Margins: page.DefaultMargins, Zoom: 0.5}, true},
		{"unknown paper", `{"paper":"Tabloid"}`, State{Paper: "Letter", Margins: page.DefaultMargins, Zoom: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode([]byte(tt.data))
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Decode = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.Paper != "Letter" || d.Margins != page.Uniform(10) || d.Zoom != 1 {
		t.Errorf("Defaults = %+v", d)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "prefs")
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, ok, err := store.Get(ctx, Key); ok || err != nil {
		t.Errorf("empty store Get = %v, %v", ok, err)
	}
	if err := store.Set(ctx, Key, []byte(`{"zoom":1}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if filepath.Base(store.Path(Key)) != "icLabelCreator_lastState.json" {
		t.Errorf("path = %s", store.Path(Key))
	}
	data, ok, err := store.Get(ctx, Key)
	if !ok || err != nil || string(data) != `{"zoom":1}` {
		t.Errorf("Get = %q, %v, %v", data, ok, err)
	}
	if err := store.Delete(ctx, Key); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := store.Delete(ctx, Key); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestManagerRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := NewFileStore(t.TempDir())
	m := NewManager(store)
	defer m.Close()

	if _, ok, _ := m.Load(ctx); ok {
		t.Error("fresh store should have no saved layout")
	}
	want := State{Paper: "A4", Margins: page.Margins{Top: 1, Right: 2, Bottom: 3, Left: 4}, Zoom: 0.75}
	if err := m.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := m.Load(ctx)
	if err != nil || !ok || got != want {
		t.Errorf("Load = %+v, %v, %v; want %+v", got, ok, err, want)
	}

	reset, err := m.Reset(ctx)
	if err != nil || reset != Defaults() {
		t.Errorf("Reset = %+v, %v", reset, err)
	}
	got, ok, _ = m.Load(ctx)
	if !ok || got != Defaults() {
		t.Errorf("after reset Load = %+v, %v", got, ok)
	}
}

func TestManagerCorruptRecord(t *testing.T) {
	ctx := context.Background()
	store, _ := NewFileStore(t.TempDir())
	if err := os.WriteFile(store.Path(Key), []byte("garbage"), 0600); err != nil {
		t.Fatal(err)
	}
	got, ok, err := NewManager(store).Load(ctx)
	if err != nil || ok || got != Defaults() {
		t.Errorf("corrupt Load = %+v, %v, %v", got, ok, err)
	}
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	store, _ := NewFileStore(t.TempDir())
	m := NewManager(store)

	sheet := page.NewSheet()
	sheet.Paper = page.A4
	sheet.Margins = page.Uniform(5)

	// No saved layout: the sheet wins.
	st, err := m.Resolve(ctx, sheet)
	if err != nil || st.Paper != "A4" || sheet.Margins != page.Uniform(5) {
		t.Errorf("Resolve without saved = %+v, %v", st, err)
	}

	// Saved layout overrides the sheet.
	_ = m.Save(ctx, State{Paper: "Letter", Margins: page.Uniform(12), Zoom: 1.2})
	st, _ = m.Resolve(ctx, sheet)
	if sheet.Paper != page.Letter || sheet.Margins != page.Uniform(12) || st.Zoom != 1.2 {
		t.Errorf("Resolve with saved: sheet %s %+v, state %+v", sheet.Paper.Name, sheet.Margins, st)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("Open file: %v", err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("default backend = %T, want *FileStore", s)
	}
	if _, err := Open(ctx, Options{Backend: "redis"}); err == nil {
		t.Error("redis without url should fail")
	}
	if _, err := Open(ctx, Options{Backend: "etcd"}); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("ICLABELS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("ICLABELS_TEST_REDIS_URL not set")
	}
	testStore(t, func() (Store, error) { return NewRedisStore(context.Background(), url, "iclabels-test:") })
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("ICLABELS_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ICLABELS_TEST_MONGO_URI not set")
	}
	testStore(t, func() (Store, error) {
		return NewMongoStore(context.Background(), uri, "iclabels_test", "prefs")
	})
}

func testStore(t *testing.T, open func() (Store, error)) {
	t.Helper()
	ctx := context.Background()
	store, err := open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	m := NewManager(store)
	want := State{Paper: "A4", Margins: page.Uniform(7), Zoom: 1.1}
	if err := m.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok, err := m.Load(ctx)
	if err != nil || !ok || got != want {
		t.Errorf("Load = %+v, %v, %v", got, ok, err)
	}
	if err := store.Delete(ctx, Key); err != nil {
		t.Errorf("Delete: %v", err)
	}
}
