package label

import (
	"strings"

	"github.com/matzehuels/iclabels/pkg/fonts"
	"github.com/matzehuels/iclabels/pkg/registry"
)

// Pin label font sizes in millimeters.
const (
	PinFontLarge  = 1.6
	PinFontMedium = 1.3
	PinFontSmall  = 1.1

	// TallBodyHeight is the body height from which every pin label gets
	// the large font, since the label space along the pin is ample.
	TallBodyHeight = 8.0
)

// combiningOverline is U+0305. Labels may carry it to overline a single
// character; it takes no horizontal space and is not counted.
const combiningOverline = '\u0305'

// PinFontSize returns the font size for a pin label on a body of the given
// height.
func PinFontSize(label string, bodyHeight float64) float64 {
	if bodyHeight >= TallBodyHeight {
		return PinFontLarge
	}
	n := 0
	for _, r := range label {
		if r != combiningOverline {
			n++
		}
	}
	switch {
	case n <= 2:
		return PinFontLarge
	case n <= 3:
		return PinFontMedium
	default:
		return PinFontSmall
	}
}

// DisplayName rewrites the "74LS" placeholder prefix of a chip name with
// series followed by family. Blank arguments fall back to the defaults, and
// blank defaults to "74" and "LS". Names without the prefix are returned
// unchanged.
func DisplayName(name, family, series, defaultFamily, defaultSeries string) string {
	if !strings.HasPrefix(name, placeholderPrefix) {
		return name
	}
	family = firstNonBlank(family, defaultFamily, DefaultLogicFamily)
	series = firstNonBlank(series, defaultSeries, DefaultSeries)
	return series + family + name[len(placeholderPrefix):]
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

const black = "black"

var categoryColors = map[registry.Category]string{
	registry.CategoryRAM:      "red",
	registry.CategorySRAM:     "red",
	registry.CategoryEEPROM:   "red",
	registry.CategoryRegister: "red",
	registry.CategoryFlipFlop: "red",
	registry.CategoryGate:     "blue",
	registry.CategoryMux:      "green",
	registry.CategoryDemux:    "green",
	registry.CategoryVIA:      "green",
	registry.CategoryCounter:  "magenta",
	registry.CategoryCPU:      "darkorange",
}

// ChipColor returns the label color for a chip category. Unlisted
// categories, and every category when color is off, are black.
func ChipColor(c registry.Category, color bool) string {
	if !color {
		return black
	}
	if v, ok := categoryColors[c]; ok {
		return v
	}
	return black
}

var pinColors = map[registry.PinType]string{
	registry.PinPower:      "#d32f2f",
	registry.PinGround:     "#000000",
	registry.PinAddress:    "#2e7d32",
	registry.PinData:       "#1565c0",
	registry.PinClock:      "#ef6c00",
	registry.PinChipSelect: "#6a1b9a",
	registry.PinReset:      "#c2185b",
	registry.PinEnable:     "#00796b",
	registry.PinInterrupt:  "#a73a62",
	registry.PinNC:         "#757575",
	registry.PinOther:      "#000000",
}

// PinColor returns the palette color of a pin type. Unknown types use the
// "other" color; everything is black when color is off.
func PinColor(t registry.PinType, color bool) string {
	if !color {
		return pinColors[registry.PinOther]
	}
	if v, ok := pinColors[t]; ok {
		return v
	}
	return pinColors[registry.PinOther]
}

// PinFontFamily returns the pin font stack, honoring a non-blank override.
func PinFontFamily(override string) string { return fonts.PinFamily(override) }
