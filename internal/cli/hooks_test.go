package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/iclabels/pkg/observability"
)

func TestCacheRecorder(t *testing.T) {
	ctx := context.Background()

	rec, restore := recordCache()
	if rec.cached() != nil {
		t.Error("no lookup yet, cached() should be nil")
	}
	observability.Cache().OnCacheMiss(ctx, "pdf")
	observability.Cache().OnCacheSet(ctx, "pdf", 10)
	if got := rec.cached(); got == nil || *got {
		t.Errorf("after a miss cached() = %v, want false", got)
	}
	restore()

	rec, restore = recordCache()
	defer restore()
	observability.Cache().OnCacheHit(ctx, "png")
	if got := rec.cached(); got == nil || !*got {
		t.Errorf("after a hit cached() = %v, want true", got)
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	h.OnPassStart(ctx, "p1", 3)
	h.OnChipSkipped(ctx, "p1", "FAKE9999", nil)
	h.OnCacheHit(ctx, "pdf")

	out := buf.String()
	for _, want := range []string{"pass start", "FAKE9999", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("log should contain %q:\n%s", want, out)
		}
	}
}
