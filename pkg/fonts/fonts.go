// Package fonts provides the font-family stacks used on labels and a text
// measurer for fitting the chip label inside the package body.
//
// Labels are printed from SVG, so the fonts themselves come from the
// printing system. Measurement uses the Go Medium face bundled with
// golang.org/x/image, which needs no external files.
package fonts

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// PinFontFamily is the default condensed stack for pin labels.
const PinFontFamily = `"Arial Narrow", "Helvetica Neue Condensed", "Roboto Condensed", Arial, "Liberation Sans Narrow", sans-serif`

// LabelFontFamily is the stack for the chip name and description.
const LabelFontFamily = `'Roboto Condensed', 'Arial Narrow', 'Nimbus Sans Narrow', Arial, Helvetica, sans-serif`

// PinFamily returns override when it is non-blank, else PinFontFamily.
func PinFamily(override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return PinFontFamily
}

// measureSize is the em size of the measurement face. Advances are scaled
// from this size to the requested one.
const measureSize = 100.0

var (
	measureFace    font.Face
	measureFaceErr error
	measureOnce    sync.Once
)

func face() (font.Face, error) {
	measureOnce.Do(func() {
		f, err := opentype.Parse(gomedium.TTF)
		if err != nil {
			measureFaceErr = fmt.Errorf("parse measurement font: %w", err)
			return
		}
		measureFace, measureFaceErr = opentype.NewFace(f, &opentype.FaceOptions{
			Size:    measureSize,
			DPI:     72,
			Hinting: font.HintingNone,
		})
	})
	return measureFace, measureFaceErr
}

// Measurer measures the advance width of text set in the label font.
// The zero value is ready to use.
type Measurer struct {
	// LetterSpacing is added after every character, in the same unit as
	// the font size.
	LetterSpacing float64
}

// TextWidth returns the width of text at the given font size. The result
// is in the unit of size (millimeters on labels).
func (m Measurer) TextWidth(text string, size float64) (float64, error) {
	if size <= 0 {
		return 0, fmt.Errorf("font size must be positive, got %g", size)
	}
	f, err := face()
	if err != nil {
		return 0, err
	}
	adv := font.MeasureString(f, text)
	width := fixedToFloat(adv) / measureSize * size
	return width + m.LetterSpacing*float64(len([]rune(text))), nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
