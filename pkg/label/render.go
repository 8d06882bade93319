package label

import (
	"math"
	"strings"

	"github.com/matzehuels/iclabels/pkg/errors"
	"github.com/matzehuels/iclabels/pkg/fonts"
	"github.com/matzehuels/iclabels/pkg/registry"
)

// Request names one chip instance to draw. Family and Series override the
// configured defaults for the display name when non-blank.
type Request struct {
	Name   string `json:"name"`
	Family string `json:"family,omitempty"`
	Series string `json:"series,omitempty"`
}

// Measurer measures the natural width of a text run. Sizes and results are
// in millimeters.
type Measurer interface {
	TextWidth(text string, size float64) (float64, error)
}

// Notifier is told about every chip that could not be drawn.
type Notifier func(req Request, err error)

// Option configures a Renderer.
type Option func(*Renderer)

// WithMeasurer replaces the default Go Medium measurer.
func WithMeasurer(m Measurer) Option {
	return func(r *Renderer) { r.measurer = m }
}

// WithNotifier sets the callback for unknown chips.
func WithNotifier(n Notifier) Option {
	return func(r *Renderer) { r.notify = n }
}

// Renderer lays out chips from a registry under a fixed Config.
type Renderer struct {
	reg      *registry.Registry
	cfg      Config
	measurer Measurer
	notify   Notifier
}

// New returns a renderer drawing chips from reg.
func New(reg *registry.Registry, cfg Config, opts ...Option) *Renderer {
	r := &Renderer{
		reg:      reg,
		cfg:      cfg,
		measurer: fonts.Measurer{LetterSpacing: labelLetterSpacing},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the renderer's settings.
func (r *Renderer) Config() Config { return r.cfg }

// RenderChip lays out req at the cursor, appends it to surface and advances
// the cursor. An unknown chip is reported to the notifier and returned as a
// CHIP_NOT_FOUND error; in that case nothing is drawn and cur is unchanged.
func (r *Renderer) RenderChip(surface *Surface, cur *Cursor, req Request) (*Chip, error) {
	c, err := r.Layout(req, *cur)
	if err != nil {
		if r.notify != nil {
			r.notify(req, err)
		}
		return nil, err
	}
	surface.Add(c)
	cur.Advance(c.Height, r.cfg.PageHeight)
	return &c, nil
}

// Layout computes the drawing of req placed at the given position without
// touching any pass state.
func (r *Renderer) Layout(req Request, at Cursor) (Chip, error) {
	chip, ok := r.reg.Lookup(req.Name)
	if !ok {
		return Chip{}, errors.ChipNotFound(req.Name)
	}

	g := r.geometry(chip)
	c := Chip{
		Name:        chip.Name,
		DisplayName: DisplayName(chip.Name, req.Family, req.Series, r.cfg.DefaultFamily, r.cfg.DefaultSeries),
		Package:     g.pkg,
		X:           at.X,
		Y:           at.Y,
		Width:       g.width,
		Height:      g.height,
	}
	c.Body = Rect{
		X:           r.cfg.StrokeOffset,
		Y:           r.cfg.StrokeOffset,
		Width:       g.width - r.cfg.StrokeOffset,
		Height:      g.height - r.cfg.StrokeOffset,
		Fill:        bodyFillColor,
		Stroke:      bodyStrokeColor,
		StrokeWidth: r.cfg.StrokeWidth,
	}
	// Centered on the left edge; the chip box clips it to a half circle.
	c.Marker = Circle{CX: 0, CY: g.height / 2, R: markerRadius, Fill: markerColor}
	c.Label = r.chipLabel(chip, c.DisplayName, g)
	c.Pins = r.pinMarks(chip, g)
	return c, nil
}

type geometry struct {
	pkg    string
	pins   int
	pitch  float64
	width  float64
	height float64
}

func (r *Renderer) geometry(chip registry.Chip) geometry {
	pitch := r.cfg.PinPitch
	if pitch <= 0 {
		pitch = DefaultPinPitch
	}
	g := geometry{pins: len(chip.Pins), pitch: pitch}
	bodyHeight := registry.DefaultBodyWidth

	pkg, hasPkg := r.reg.LookupPackage(chip.Package)
	if hasPkg {
		g.pkg = pkg.Name
		if pkg.Pins > 0 {
			g.pins = pkg.Pins
		}
		if pkg.PinPitch > 0 {
			g.pitch = pkg.PinPitch
		}
		bodyHeight = pkg.BodyHeight()
	}
	if hasPkg && pkg.BodyLength > 0 {
		g.width = pkg.BodyLength
	} else {
		g.width = math.Max(g.pitch, (float64(g.pins)/2-1)*g.pitch)
	}
	g.height = math.Max(minBodyHeight, bodyHeight-r.cfg.HeightSizeAdjust)
	return g
}

func (r *Renderer) chipLabel(chip registry.Chip, display string, g geometry) Text {
	t := Text{
		X:             g.width / 2,
		Y:             g.height / 2,
		Content:       strings.TrimSpace(display + " " + chip.Description),
		Anchor:        AnchorMiddle,
		Middle:        true,
		FontFamily:    fonts.LabelFontFamily,
		FontSize:      math.Max(labelMinFontSize, g.height*labelHeightRatio),
		FontWeight:    labelFontWeight,
		LetterSpacing: labelLetterSpacing,
		Fill:          ChipColor(chip.Category, r.cfg.Color),
		FillOpacity:   labelOpacity,
	}
	target := math.Max(0, g.width-2*labelMargin)
	if r.measurer == nil {
		return t
	}
	natural, err := r.measurer.TextWidth(t.Content, t.FontSize)
	if err != nil || math.IsNaN(natural) || math.IsInf(natural, 0) {
		return t
	}
	// Long labels are squeezed; short ones keep their natural width.
	if natural > target {
		t.TextLength = target
	}
	return t
}

func (r *Renderer) pinMarks(chip registry.Chip, g geometry) []PinMark {
	perSide := float64(g.pins) / 2
	track := (perSide - 1) * g.pitch
	x := math.Max(0, (g.width-track)/2)

	marks := make([]PinMark, 0, len(chip.Pins))
	for _, p := range chip.Pins {
		if float64(p.Number) <= perSide {
			marks = append(marks, r.pinMark(p, SideBottom, x, g))
			x += g.pitch
			continue
		}
		x -= g.pitch
		marks = append(marks, r.pinMark(p, SideTop, x, g))
	}
	return marks
}

func (r *Renderer) pinMark(p registry.Pin, side Side, x float64, g geometry) PinMark {
	color := PinColor(p.Type, r.cfg.Color)
	label, overline := p.DisplayLabel()

	m := PinMark{Pin: p, Side: side, X: x}

	m.Indicator = Rect{
		X:           x - indicatorWidth/2,
		Width:       indicatorWidth,
		Height:      indicatorHeight,
		Fill:        "white",
		Stroke:      color,
		StrokeWidth: indicatorStrokeWidth,
	}
	if side == SideBottom {
		m.Indicator.Y = g.height - indicatorHeight
	}
	switch p.Direction {
	case registry.DirOutput:
		m.Indicator.Fill = color
	case registry.DirBidirectional:
		m.HalfFill = &Rect{
			X:      m.Indicator.X,
			Y:      m.Indicator.Y,
			Width:  indicatorWidth / 2,
			Height: indicatorHeight,
			Fill:   color,
		}
	}

	offset := pinOffsetTop
	anchor := AnchorEnd
	textY := indicatorHeight + indicatorGap
	if side == SideBottom {
		offset = pinOffsetBottom
		anchor = AnchorStart
		textY = g.height - indicatorHeight - indicatorGap
	}
	size := PinFontSize(label, g.height)
	textX := math.Min(x+offset, math.Max(0, g.width-pinEdgeMargin))
	textX -= (PinFontLarge - size) * pinFontShift

	m.Label = Text{
		X:          textX,
		Y:          textY,
		Content:    label,
		Anchor:     anchor,
		Rotate:     270,
		FontFamily: PinFontFamily(r.cfg.PinFontFamily),
		FontSize:   size,
		Fill:       color,
		Overline:   overline,
	}
	return m
}
