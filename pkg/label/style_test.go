package label

import (
	"testing"

	"github.com/matzehuels/iclabels/pkg/registry"
)

func TestPinFontSize(t *testing.T) {
	tests := []struct {
		label  string
		height float64
		want   float64
	}{
		{"A", 7.62, PinFontLarge},
		{"A0", 7.62, PinFontLarge},
		{"CLK", 7.62, PinFontMedium},
		{"MR", 7.62, PinFontLarge},
		{"GND", 7.62, PinFontMedium},
		{"PHI2", 7.62, PinFontSmall},
		{"R/W\u0305", 7.62, PinFontMedium},
		{"PHI2", 8, PinFontLarge},
		{"VECTOR", 15.24, PinFontLarge},
	}
	for _, tt := range tests {
		if got := PinFontSize(tt.label, tt.height); got != tt.want {
			t.Errorf("PinFontSize(%q, %g) = %g, want %g", tt.label, tt.height, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name, family, series, defFamily, defSeries string
		want                                       string
	}{
		{"74LS00", "", "", "LS", "74", "74LS00"},
		{"74LS00", "HC", "", "LS", "74", "74HC00"},
		{"74LS00", "", "54", "LS", "74", "54LS00"},
		{"74LS00", "", "", "HCT", "", "74HCT00"},
		{"74LS00", "", "", "", "", "74LS00"},
		{"W65C02", "HC", "54", "LS", "74", "W65C02"},
		{"7400LS", "HC", "", "LS", "74", "7400LS"},
	}
	for _, tt := range tests {
		got := DisplayName(tt.name, tt.family, tt.series, tt.defFamily, tt.defSeries)
		if got != tt.want {
			t.Errorf("DisplayName(%q, %q, %q) = %q, want %q", tt.name, tt.family, tt.series, got, tt.want)
		}
	}
}

func TestChipColor(t *testing.T) {
	tests := []struct {
		cat  registry.Category
		want string
	}{
		{registry.CategoryRAM, "red"},
		{registry.CategoryFlipFlop, "red"},
		{registry.CategoryGate, "blue"},
		{registry.CategoryVIA, "green"},
		{registry.CategoryCounter, "magenta"},
		{registry.CategoryCPU, "darkorange"},
		{registry.CategoryBuffer, "black"},
		{registry.CategoryNone, "black"},
	}
	for _, tt := range tests {
		if got := ChipColor(tt.cat, true); got != tt.want {
			t.Errorf("ChipColor(%q) = %s, want %s", tt.cat, got, tt.want)
		}
		if got := ChipColor(tt.cat, false); got != "black" {
			t.Errorf("ChipColor(%q, off) = %s, want black", tt.cat, got)
		}
	}
}

func TestPinColor(t *testing.T) {
	if got := PinColor(registry.PinPower, true); got != "#d32f2f" {
		t.Errorf("power = %s", got)
	}
	if got := PinColor(registry.PinType("bogus"), true); got != "#000000" {
		t.Errorf("unknown type = %s, want other color", got)
	}
	for _, pt := range registry.PinTypes {
		if got := PinColor(pt, false); got != "#000000" {
			t.Errorf("PinColor(%s, off) = %s", pt, got)
		}
	}
}

func TestCursorAdvance(t *testing.T) {
	c := Cursor{}
	c.Advance(10, 100)
	if c != (Cursor{0, 14}) {
		t.Errorf("after advance: %+v", c)
	}
	c = Cursor{X: 50, Y: 80}
	c.Advance(10, 100)
	if c != (Cursor{100, 0}) {
		t.Errorf("after wrap: %+v", c)
	}
}
