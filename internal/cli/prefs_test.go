package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/page"
	"github.com/matzehuels/iclabels/pkg/prefs"
)

func showPrefs(t *testing.T, env *testEnv) prefs.State {
	t.Helper()
	out, err := env.run(t, "prefs", "show", "--json")
	if err != nil {
		t.Fatalf("prefs show: %v", err)
	}
	var s prefs.State
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return s
}

func TestPrefsSetShowReset(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "prefs", "show")
	if err != nil {
		t.Fatalf("prefs show: %v", err)
	}
	if !strings.Contains(out, "nothing saved") {
		t.Errorf("fresh store should say nothing is saved:\n%s", out)
	}

	if _, err := env.run(t, "prefs", "set", "--paper", "a4", "--margins", "10 5", "--zoom", "5"); err != nil {
		t.Fatalf("prefs set: %v", err)
	}
	got := showPrefs(t, env)
	want := prefs.State{
		Paper:   "A4",
		Margins: page.Margins{Top: 10, Right: 5, Bottom: 10, Left: 5},
		Zoom:    prefs.MaxZoom,
	}
	if got != want {
		t.Errorf("saved = %+v, want %+v", got, want)
	}

	// unchanged fields survive a partial update
	if _, err := env.run(t, "prefs", "set", "--zoom", "0.75"); err != nil {
		t.Fatalf("prefs set: %v", err)
	}
	got = showPrefs(t, env)
	if got.Paper != "A4" || got.Zoom != 0.75 {
		t.Errorf("after zoom update = %+v", got)
	}

	if _, err := env.run(t, "prefs", "reset"); err != nil {
		t.Fatalf("prefs reset: %v", err)
	}
	if got := showPrefs(t, env); got != prefs.Defaults() {
		t.Errorf("after reset = %+v, want defaults", got)
	}
}

func TestPrefsSetErrors(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"no flags", []string{"prefs", "set"}, errors.ErrCodeInvalidInput},
		{"unknown paper", []string{"prefs", "set", "--paper", "Legal"}, errors.ErrCodeInvalidPaper},
		{"bad margins", []string{"prefs", "set", "--margins", "wide"}, errors.ErrCodeInvalidMargins},
		{"negative margins", []string{"prefs", "set", "--margins", "-3"}, errors.ErrCodeInvalidMargins},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestPrefsPath(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "prefs", "path")
	if err != nil {
		t.Fatalf("prefs path: %v", err)
	}
	if got := strings.TrimSpace(out); filepath.Dir(got) != filepath.Join(env.dir, "prefs") {
		t.Errorf("prefs path = %q, want a file in %s", got, filepath.Join(env.dir, "prefs"))
	}
}
