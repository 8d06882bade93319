package label

import (
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/registry"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

type fixedMeasurer float64

func (m fixedMeasurer) TextWidth(string, float64) (float64, error) { return float64(m), nil }

type failingMeasurer struct{}

func (failingMeasurer) TextWidth(string, float64) (float64, error) {
	return 0, fmt.Errorf("no font")
}

func newTestRenderer(t *testing.T, pageHeight float64, opts ...Option) *Renderer {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PageWidth = 200
	cfg.PageHeight = pageHeight
	return New(registry.Default(), cfg, opts...)
}

func TestRenderChipGeometry(t *testing.T) {
	r := newTestRenderer(t, 250)
	var s Surface
	var cur Cursor

	c, err := r.RenderChip(&s, &cur, Request{Name: "74LS00"})
	if err != nil {
		t.Fatalf("RenderChip: %v", err)
	}
	if c.Package != "DIP14" || !near(c.Width, 19.30) || !near(c.Height, 7.62) {
		t.Errorf("chip box = %s %gx%g, want DIP14 19.30x7.62", c.Package, c.Width, c.Height)
	}
	if !near(c.Body.X, 0.1) || !near(c.Body.Width, 19.20) || c.Body.Stroke != "silver" {
		t.Errorf("body = %+v", c.Body)
	}
	if c.Marker.CX != 0 || !near(c.Marker.CY, 3.81) || c.Marker.R != 1.2 {
		t.Errorf("marker = %+v", c.Marker)
	}
	if c.Label.Content != "74LS00 NAND" || c.Label.Fill != "blue" || c.Label.FillOpacity != 0.35 {
		t.Errorf("label = %+v", c.Label)
	}
	if !near(c.Label.FontSize, 7.62*0.32) {
		t.Errorf("label font size = %g", c.Label.FontSize)
	}
	if s.Len() != 1 {
		t.Errorf("surface has %d chips, want 1", s.Len())
	}
}

func TestPinSides(t *testing.T) {
	r := newTestRenderer(t, 250)
	c, err := r.Layout(Request{Name: "74LS00"}, Cursor{})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Pins) != 14 {
		t.Fatalf("got %d pins, want 14", len(c.Pins))
	}

	leftPad := (19.30 - 6*2.54) / 2
	for _, m := range c.Pins {
		n := m.Pin.Number
		switch {
		case n <= 7:
			if m.Side != SideBottom {
				t.Errorf("pin %d on %s, want bottom", n, m.Side)
			}
			if want := leftPad + float64(n-1)*2.54; !near(m.X, want) {
				t.Errorf("pin %d x = %g, want %g", n, m.X, want)
			}
			if m.Label.Anchor != AnchorStart {
				t.Errorf("pin %d anchor = %s", n, m.Label.Anchor)
			}
		default:
			if m.Side != SideTop {
				t.Errorf("pin %d on %s, want top", n, m.Side)
			}
			// Counter-clockwise: pin 8 sits above pin 7, pin 14 above pin 1.
			if want := leftPad + float64(14-n)*2.54; !near(m.X, want) {
				t.Errorf("pin %d x = %g, want %g", n, m.X, want)
			}
			if m.Label.Anchor != AnchorEnd || m.Indicator.Y != 0 {
				t.Errorf("pin %d label/indicator = %+v / %+v", n, m.Label, m.Indicator)
			}
		}
	}
}

func TestPinMarks(t *testing.T) {
	r := newTestRenderer(t, 250)
	c, err := r.Layout(Request{Name: "555"}, Cursor{})
	if err != nil {
		t.Fatal(err)
	}
	byNumber := map[int]PinMark{}
	for _, m := range c.Pins {
		byNumber[m.Pin.Number] = m
	}

	tri := byNumber[2]
	if tri.Label.Content != "TRI" || !tri.Label.Overline {
		t.Errorf("pin 2 label = %+v, want overlined TRI", tri.Label)
	}
	if tri.Indicator.Fill != "white" || tri.HalfFill != nil {
		t.Errorf("input indicator = %+v", tri.Indicator)
	}
	if !near(tri.Indicator.Y, 7.62-0.4) || !near(tri.Label.Y, 7.62-0.7) {
		t.Errorf("bottom pin y = %g / %g", tri.Indicator.Y, tri.Label.Y)
	}

	rst := byNumber[4]
	if rst.Label.Fill != "#c2185b" || rst.Indicator.Stroke != "#c2185b" {
		t.Errorf("reset pin colors = %s / %s", rst.Label.Fill, rst.Indicator.Stroke)
	}

	dch := byNumber[7]
	if dch.HalfFill == nil || !near(dch.HalfFill.Width, 0.4) {
		t.Errorf("bidirectional pin half fill = %+v", dch.HalfFill)
	}
	if !near(dch.Label.Y, 0.7) {
		t.Errorf("top pin label y = %g, want 0.7", dch.Label.Y)
	}
	if want := dch.X + 0.6 - (1.6-1.3)*0.3; !near(dch.Label.X, want) {
		t.Errorf("top pin label x = %g, want %g", dch.Label.X, want)
	}
}

func TestOutputIndicatorIsSolid(t *testing.T) {
	r := newTestRenderer(t, 250)
	c, _ := r.Layout(Request{Name: "74LS00"}, Cursor{})
	for _, m := range c.Pins {
		if m.Pin.Number == 3 {
			if m.Indicator.Fill != m.Indicator.Stroke {
				t.Errorf("output indicator fill %s, stroke %s", m.Indicator.Fill, m.Indicator.Stroke)
			}
			return
		}
	}
	t.Fatal("pin 3 missing")
}

func TestAutoFlowWrapsOnce(t *testing.T) {
	// DIP14 bodies are 7.62mm tall; with the 4mm gap the third chip leaves
	// less than 10mm on a 40mm page.
	r := newTestRenderer(t, 40)
	var s Surface
	var cur Cursor
	for i := 0; i < 5; i++ {
		if _, err := r.RenderChip(&s, &cur, Request{Name: "74LS00"}); err != nil {
			t.Fatal(err)
		}
	}
	want := []Cursor{{0, 0}, {0, 11.62}, {0, 23.24}, {50, 0}, {50, 11.62}}
	for i, c := range s.Chips {
		if !near(c.X, want[i].X) || !near(c.Y, want[i].Y) {
			t.Errorf("chip %d at (%g, %g), want (%g, %g)", i, c.X, c.Y, want[i].X, want[i].Y)
		}
	}
}

func TestUnknownChipIsSkipped(t *testing.T) {
	var notified []string
	r := newTestRenderer(t, 250, WithNotifier(func(req Request, err error) {
		notified = append(notified, req.Name)
	}))
	var s Surface
	var cur Cursor

	if _, err := r.RenderChip(&s, &cur, Request{Name: "74LS00"}); err != nil {
		t.Fatal(err)
	}
	before := cur

	_, err := r.RenderChip(&s, &cur, Request{Name: "FAKE9999"})
	if !errors.Is(err, errors.ErrCodeChipNotFound) {
		t.Fatalf("err = %v, want CHIP_NOT_FOUND", err)
	}
	if cur != before {
		t.Errorf("cursor moved to %+v after failed lookup", cur)
	}
	if len(notified) != 1 || notified[0] != "FAKE9999" {
		t.Errorf("notified = %v", notified)
	}

	c, err := r.RenderChip(&s, &cur, Request{Name: "74LS04"})
	if err != nil {
		t.Fatal(err)
	}
	if !near(c.X, before.X) || !near(c.Y, before.Y) {
		t.Errorf("next chip at (%g, %g), want the skipped slot %+v", c.X, c.Y, before)
	}
	if s.Len() != 2 {
		t.Errorf("surface has %d chips, want 2", s.Len())
	}
}

func TestDisplayNameOverride(t *testing.T) {
	r := newTestRenderer(t, 250)
	c, _ := r.Layout(Request{Name: "74LS00", Family: "HC"}, Cursor{})
	if c.DisplayName != "74HC00" {
		t.Errorf("display name = %q, want 74HC00", c.DisplayName)
	}
	c, _ = r.Layout(Request{Name: "74LS00", Family: "HCT", Series: "54"}, Cursor{})
	if c.DisplayName != "54HCT00" {
		t.Errorf("display name = %q, want 54HCT00", c.DisplayName)
	}
}

func TestLabelCompression(t *testing.T) {
	tests := []struct {
		name     string
		measurer Measurer
		want     float64
	}{
		{"fits", fixedMeasurer(5), 0},
		{"too wide", fixedMeasurer(40), 19.30 - 3},
		{"measure fails", failingMeasurer{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(t, 250, WithMeasurer(tt.measurer))
			c, err := r.Layout(Request{Name: "74LS00"}, Cursor{})
			if err != nil {
				t.Fatal(err)
			}
			if !near(c.Label.TextLength, tt.want) {
				t.Errorf("text length = %g, want %g", c.Label.TextLength, tt.want)
			}
		})
	}
}

func TestFallbackGeometry(t *testing.T) {
	chips := []byte(`
["X6"]
description = "loose"
category = "gate"

["X6".pins]
1 = "A"
2 = "B"
3 = "C"
4 = "D"
5 = "E"
6 = "F"
`)
	reg, err := registry.Load(chips, nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.PageHeight = 100
	cfg.HeightSizeAdjust = 1
	c, err := New(reg, cfg).Layout(Request{Name: "X6"}, Cursor{})
	if err != nil {
		t.Fatal(err)
	}
	if !near(c.Width, 2*2.54) {
		t.Errorf("width = %g, want %g", c.Width, 2*2.54)
	}
	if !near(c.Height, 6.62) {
		t.Errorf("height = %g, want 6.62", c.Height)
	}

	cfg.HeightSizeAdjust = 50
	c, _ = New(reg, cfg).Layout(Request{Name: "X6"}, Cursor{})
	if c.Height != 1 {
		t.Errorf("height = %g, want floor of 1", c.Height)
	}
}

func TestColorDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageHeight = 250
	cfg.Color = false
	c, _ := New(registry.Default(), cfg).Layout(Request{Name: "555"}, Cursor{})
	if c.Label.Fill != "black" {
		t.Errorf("label fill = %s", c.Label.Fill)
	}
	for _, m := range c.Pins {
		if m.Label.Fill != "#000000" {
			t.Errorf("pin %d fill = %s, want black", m.Pin.Number, m.Label.Fill)
		}
	}
}
