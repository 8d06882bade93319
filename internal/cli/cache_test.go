package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/iclabels/pkg/cache"
)

func TestCachePath(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if !strings.Contains(out, "disabled") {
		t.Errorf("none backend should report caching disabled, got %q", out)
	}

	dir := filepath.Join(env.dir, "artifacts")
	t.Setenv("ICLABELS_CACHE__BACKEND", "file")
	t.Setenv("ICLABELS_CACHE__DIR", dir)
	out, err = env.run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}
}

func TestCacheClear(t *testing.T) {
	env := newTestEnv(t)
	dir := filepath.Join(env.dir, "artifacts")
	t.Setenv("ICLABELS_CACHE__BACKEND", "file")
	t.Setenv("ICLABELS_CACHE__DIR", dir)

	out, err := env.run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "empty") {
		t.Errorf("fresh cache should be empty, got %q", out)
	}

	ac, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if err := ac.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	out, err = env.run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 3") {
		t.Errorf("expected 3 cleared entries, got %q", out)
	}
}

func TestCacheClearDisabled(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(out, "disabled") {
		t.Errorf("none backend should report caching disabled, got %q", out)
	}
}
