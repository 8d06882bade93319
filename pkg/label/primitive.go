package label

import "github.com/matzehuels/iclabels/pkg/registry"

// Rect is an axis-aligned rectangle. A zero StrokeWidth means no stroke.
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
}

// Circle is a filled circle.
type Circle struct {
	CX   float64 `json:"cx"`
	CY   float64 `json:"cy"`
	R    float64 `json:"r"`
	Fill string  `json:"fill"`
}

// Anchor is the text anchor along the writing direction.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Text is a run of text anchored at (X, Y) and rotated by Rotate degrees
// around the anchor.
type Text struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Content       string  `json:"content"`
	Anchor        Anchor  `json:"anchor"`
	Middle        bool    `json:"middle,omitempty"` // vertically centered on Y
	Rotate        float64 `json:"rotate,omitempty"`
	FontFamily    string  `json:"font_family"`
	FontSize      float64 `json:"font_size"`
	FontWeight    int     `json:"font_weight,omitempty"`
	LetterSpacing float64 `json:"letter_spacing,omitempty"`
	Fill          string  `json:"fill"`
	FillOpacity   float64 `json:"fill_opacity,omitempty"`
	Overline      bool    `json:"overline,omitempty"`

	// TextLength, when positive, squeezes the run to exactly this width
	// by adjusting both spacing and glyphs.
	TextLength float64 `json:"text_length,omitempty"`
}

// Side is the body edge a pin sits on.
type Side string

const (
	SideBottom Side = "bottom"
	SideTop    Side = "top"
)

// PinMark is the drawing of one pin: the direction indicator on the edge,
// an optional half-width fill for bidirectional pins, and the label.
type PinMark struct {
	Pin       registry.Pin `json:"pin"`
	Side      Side         `json:"side"`
	X         float64      `json:"x"`
	Indicator Rect         `json:"indicator"`
	HalfFill  *Rect        `json:"half_fill,omitempty"`
	Label     Text         `json:"label"`
}

// Chip is a placed chip label. X, Y, Width and Height locate it on the
// page; every primitive inside is relative to its top-left corner and is
// clipped to its box.
type Chip struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Package     string  `json:"package,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`

	Body   Rect      `json:"body"`
	Marker Circle    `json:"marker"`
	Label  Text      `json:"label"`
	Pins   []PinMark `json:"pins"`
}

// Surface collects the chips of one page, in placement order.
type Surface struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Chips  []Chip  `json:"chips"`
}

// Add appends a chip.
func (s *Surface) Add(c Chip) { s.Chips = append(s.Chips, c) }

// Len returns the number of placed chips.
func (s *Surface) Len() int { return len(s.Chips) }
