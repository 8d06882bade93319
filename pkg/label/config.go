package label

// Default render settings. All lengths are millimeters.
const (
	DefaultPinPitch      = 2.54
	DefaultStrokeWidth   = 0.1
	DefaultStrokeOffset  = 0.1
	DefaultLogicFamily   = "LS"
	DefaultSeries        = "74"
	DefaultHeightAdjust  = 0.0
	minBodyHeight        = 1.0
	placeholderPrefix    = DefaultSeries + DefaultLogicFamily
	bodyStrokeColor      = "silver"
	bodyFillColor        = "white"
	markerColor          = "grey"
	markerRadius         = 1.2
	labelMargin          = 1.5
	labelHeightRatio     = 0.32
	labelMinFontSize     = 1.0
	labelFontWeight      = 600
	labelLetterSpacing   = 0.05
	labelOpacity         = 0.35
	indicatorWidth       = 0.8
	indicatorHeight      = 0.4
	indicatorGap         = 0.3
	indicatorStrokeWidth = 0.1
	pinEdgeMargin        = 0.8
	pinOffsetBottom      = 0.5
	pinOffsetTop         = 0.6
	pinFontShift         = 0.3
)

// Auto-flow constants.
const (
	// ChipGap is the vertical space left below every chip.
	ChipGap = 4.0
	// WrapMargin is the space that must remain below the cursor; when it
	// does not, the next chip starts a new column.
	WrapMargin = 10.0
	// ColumnWidth is the horizontal advance of a column wrap.
	ColumnWidth = 50.0
)

// Config holds the rendering parameters of one render pass.
type Config struct {
	// PageWidth and PageHeight are the printable content area.
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`

	// PinPitch is used when a chip has no resolvable package.
	PinPitch float64 `json:"pin_pitch"`

	// HeightSizeAdjust is subtracted from the body height to compensate
	// for visual padding. The result never drops below 1mm.
	HeightSizeAdjust float64 `json:"height_size_adjust"`

	StrokeWidth  float64 `json:"stroke_width"`
	StrokeOffset float64 `json:"stroke_offset"`

	// DefaultFamily and DefaultSeries replace the "74LS" placeholder of
	// chip names when a request carries no override.
	DefaultFamily string `json:"default_family"`
	DefaultSeries string `json:"default_series"`

	// Color enables category and pin-type coloring. When false everything
	// is drawn in black.
	Color bool `json:"color"`

	// PinFontFamily overrides the pin label font stack when non-blank.
	PinFontFamily string `json:"pin_font_family,omitempty"`
}

// DefaultConfig returns the stock settings on an unbounded page.
func DefaultConfig() Config {
	return Config{
		PinPitch:         DefaultPinPitch,
		HeightSizeAdjust: DefaultHeightAdjust,
		StrokeWidth:      DefaultStrokeWidth,
		StrokeOffset:     DefaultStrokeOffset,
		DefaultFamily:    DefaultLogicFamily,
		DefaultSeries:    DefaultSeries,
		Color:            true,
	}
}

// Cursor is the placement state of a render pass: the top-left corner of
// the next chip on the page.
type Cursor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Advance moves the cursor below a chip of the given height, wrapping to a
// new column when fewer than WrapMargin millimeters would remain.
func (c *Cursor) Advance(height, pageHeight float64) {
	c.Y += height + ChipGap
	if c.Y+WrapMargin > pageHeight {
		c.Y = 0
		c.X += ColumnWidth
	}
}
