package render

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matzehuels/iclabels/pkg/cache"
	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/page"
	"github.com/matzehuels/iclabels/pkg/registry"
)

func testPass(t *testing.T, names ...string) *page.Pass {
	t.Helper()
	s := page.NewSheet()
	s.Paper = page.A4
	for _, n := range names {
		s.Add(page.Entry{Name: n})
	}
	return page.Render(context.Background(), s, registry.Default(), page.Options{})
}

func TestRenderSVG(t *testing.T) {
	p := testPass(t, "74LS00", "555")
	svg := string(RenderSVG(p))

	for _, want := range []string{
		`width="210mm" height="297mm" viewBox="0 0 210 297"`,
		`<svg x="10" y="10" width="190" height="277" viewBox="0 0 190 277">`,
		`data-chip="74LS00"`,
		`data-chip="555"`,
		`rotate(270)`,
		`text-decoration="overline"`,
		`stroke="silver"`,
		`fill-opacity="0.35"`,
		`>74LS00 NAND</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if n := strings.Count(svg, `class="chip"`); n != 2 {
		t.Errorf("got %d chip viewports, want 2", n)
	}
	if strings.Contains(svg, "stroke-dasharray") {
		t.Error("guides drawn without WithGuides")
	}
	if strings.Contains(svg, `"Arial Narrow"`) {
		t.Error("font family quotes not escaped")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	p := testPass(t, "74LS00")
	if svg := string(RenderSVG(p, WithGuides())); !strings.Contains(svg, "stroke-dasharray") {
		t.Error("WithGuides did not draw guides")
	}
	svg := string(RenderSVG(p, WithContentOnly()))
	if !strings.Contains(svg, `width="190mm" height="277mm"`) {
		t.Errorf("content-only root not sized to content: %.120s", svg)
	}
}

func TestNum(t *testing.T) {
	tests := map[float64]string{
		11.620000000000001: "11.62",
		0.1:                "0.1",
		190:                "190",
		2.54 * 3:           "7.62",
	}
	for in, want := range tests {
		if got := num(in); got != want {
			t.Errorf("num(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestRenderHTML(t *testing.T) {
	p := testPass(t, "74LS00", "FAKE9999")
	out, err := RenderHTML(p, WithZoom(5), WithControls("/api/prefs"), WithLiveReload("/events"))
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		"@page { size: 210mm 297mm; margin: 0; }",
		"scale(2)",
		`Unknown chip "FAKE9999" skipped.`,
		`id="paper"`,
		`api`,
		`EventSource(`,
		`<svg xmlns="http://www.w3.org/2000/svg"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
}

func TestClampZoom(t *testing.T) {
	tests := map[float64]float64{0.1: 0.5, 1.25: 1.25, 3: 2}
	for in, want := range tests {
		if got := ClampZoom(in); got != want {
			t.Errorf("ClampZoom(%g) = %g, want %g", in, got, want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	p := testPass(t, "74LS00", "FAKE9999")
	data, err := RenderJSON(p)
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		ID      string `json:"id"`
		Surface struct {
			Chips []struct {
				Name string `json:"name"`
			} `json:"chips"`
		} `json:"surface"`
		Skipped []struct {
			Name    string `json:"name"`
			Message string `json:"message"`
		} `json:"skipped"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != p.ID || len(out.Surface.Chips) != 1 || len(out.Skipped) != 1 {
		t.Errorf("decoded = %+v", out)
	}
	if !strings.Contains(out.Skipped[0].Message, "FAKE9999") {
		t.Errorf("skip message = %q", out.Skipped[0].Message)
	}
}

func TestFingerprint(t *testing.T) {
	a := testPass(t, "74LS00")
	b := testPass(t, "74LS00")
	c := testPass(t, "74LS04")
	fp := func(p *page.Pass) string {
		t.Helper()
		s, err := Fingerprint(p)
		if err != nil {
			t.Fatalf("Fingerprint: %v", err)
		}
		return s
	}
	if fp(a) != fp(b) {
		t.Error("equal passes should have equal fingerprints")
	}
	if fp(a) == fp(c) {
		t.Error("different passes should have different fingerprints")
	}

	bad := testPass(t, "74LS00")
	bad.Margins.Top = math.NaN()
	if _, err := Fingerprint(bad); err == nil {
		t.Error("non-finite pass should have no fingerprint")
	}

	e := &Exporter{Cache: cache.NewNullCache()}
	if key := e.artifactKey(bad, FormatPDF, 0, false); key != "" {
		t.Errorf("non-finite pass got cache key %q", key)
	}
	if e.artifactKey(a, FormatPDF, 0, false) == "" {
		t.Error("finite pass should have a cache key")
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%s) = %s, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(gif) err = %v", err)
	}
}

// fakeConverter installs a stand-in for rsvg-convert that echoes its input
// and counts invocations.
func fakeConverter(t *testing.T) (calls func() int) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script converter")
	}
	dir := t.TempDir()
	counter := filepath.Join(dir, "calls")
	script := "#!/bin/sh\necho x >> " + counter + "\ncat\n"
	bin := filepath.Join(dir, "rsvg-convert")
	if err := os.WriteFile(bin, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	old := rsvgBinary
	rsvgBinary = bin
	t.Cleanup(func() { rsvgBinary = old })
	return func() int {
		data, _ := os.ReadFile(counter)
		return strings.Count(string(data), "x")
	}
}

func TestExporterCachesConversions(t *testing.T) {
	calls := fakeConverter(t)
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	e := &Exporter{Cache: fc}
	p := testPass(t, "74LS00")

	first, err := e.Export(ctx, p, FormatPDF, Options{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	second, err := e.Export(ctx, p, FormatPDF, Options{})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if string(first) != string(second) {
		t.Error("cached artifact differs")
	}
	if n := calls(); n != 1 {
		t.Errorf("converter ran %d times, want 1", n)
	}

	if _, err := e.Export(ctx, p, FormatPNG, Options{}); err != nil {
		t.Fatal(err)
	}
	if n := calls(); n != 2 {
		t.Errorf("converter ran %d times after PNG, want 2", n)
	}
}

func TestExporterTextFormats(t *testing.T) {
	var e Exporter
	p := testPass(t, "555")
	for _, f := range []Format{FormatSVG, FormatHTML, FormatJSON} {
		data, err := e.Export(context.Background(), p, f, Options{Guides: true, Zoom: 1.5})
		if err != nil || len(data) == 0 {
			t.Errorf("Export(%s) = %d bytes, %v", f, len(data), err)
		}
	}
}

func TestMissingConverter(t *testing.T) {
	old := rsvgBinary
	rsvgBinary = "rsvg-convert-does-not-exist"
	defer func() { rsvgBinary = old }()

	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want UNSUPPORTED", err)
	}
}
