package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/iclabels/pkg/label"
	"github.com/matzehuels/iclabels/pkg/page"
)

const guideColor = "#8fa8c8"

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	guides      bool
	contentOnly bool
}

// WithGuides draws a dashed outline of the margins. Guides are for screen
// previews; leave them off for printing.
func WithGuides() SVGOption { return func(r *svgRenderer) { r.guides = true } }

// WithContentOnly emits only the content area, without the paper frame.
func WithContentOnly() SVGOption { return func(r *svgRenderer) { r.contentOnly = true } }

// RenderSVG renders the pass as a paper-sized SVG document. One user unit
// is one millimeter.
func RenderSVG(p *page.Pass, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	cw, ch := p.Surface.Width, p.Surface.Height
	var buf bytes.Buffer
	if r.contentOnly {
		writeRoot(&buf, cw, ch)
		renderChips(&buf, p.Surface.Chips)
		buf.WriteString("</svg>\n")
		return buf.Bytes()
	}

	writeRoot(&buf, p.Paper.Width, p.Paper.Height)
	fmt.Fprintf(&buf, `  <rect width="%s" height="%s" fill="white"/>`+"\n", num(p.Paper.Width), num(p.Paper.Height))
	if r.guides {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-width="0.2" stroke-dasharray="1 1"/>`+"\n",
			num(p.Margins.Left), num(p.Margins.Top), num(cw), num(ch), guideColor)
	}
	fmt.Fprintf(&buf, `  <svg x="%s" y="%s" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(p.Margins.Left), num(p.Margins.Top), num(cw), num(ch), num(cw), num(ch))
	renderChips(&buf, p.Surface.Chips)
	buf.WriteString("  </svg>\n</svg>\n")
	return buf.Bytes()
}

func writeRoot(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%smm" height="%smm" viewBox="0 0 %s %s">`+"\n",
		num(w), num(h), num(w), num(h))
}

func renderChips(buf *bytes.Buffer, chips []label.Chip) {
	for _, c := range chips {
		renderChip(buf, c)
	}
}

func renderChip(buf *bytes.Buffer, c label.Chip) {
	fmt.Fprintf(buf, `    <svg class="chip" data-chip="%s" x="%s" y="%s" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		EscapeXML(c.Name), num(c.X), num(c.Y), num(c.Width), num(c.Height), num(c.Width), num(c.Height))
	writeRect(buf, c.Body)
	fmt.Fprintf(buf, `      <circle cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
		num(c.Marker.CX), num(c.Marker.CY), num(c.Marker.R), EscapeXML(c.Marker.Fill))
	writeText(buf, c.Label)
	for _, m := range c.Pins {
		writeRect(buf, m.Indicator)
		if m.HalfFill != nil {
			writeRect(buf, *m.HalfFill)
		}
		writeText(buf, m.Label)
	}
	buf.WriteString("    </svg>\n")
}

func writeRect(buf *bytes.Buffer, r label.Rect) {
	fmt.Fprintf(buf, `      <rect x="%s" y="%s" width="%s" height="%s" fill="%s"`,
		num(r.X), num(r.Y), num(math.Max(0, r.Width)), num(math.Max(0, r.Height)), EscapeXML(r.Fill))
	if r.Stroke != "" && r.StrokeWidth > 0 {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%s"`, EscapeXML(r.Stroke), num(r.StrokeWidth))
	}
	buf.WriteString("/>\n")
}

func writeText(buf *bytes.Buffer, t label.Text) {
	buf.WriteString("      <text")
	if t.Rotate != 0 {
		fmt.Fprintf(buf, ` x="0" y="0" transform="translate(%s %s) rotate(%s)"`, num(t.X), num(t.Y), num(t.Rotate))
	} else {
		fmt.Fprintf(buf, ` x="%s" y="%s"`, num(t.X), num(t.Y))
	}
	if t.Middle {
		buf.WriteString(` dominant-baseline="middle"`)
	}
	fmt.Fprintf(buf, ` text-anchor="%s" font-family="%s" font-size="%s"`,
		t.Anchor, EscapeXML(t.FontFamily), num(t.FontSize))
	if t.FontWeight > 0 {
		fmt.Fprintf(buf, ` font-weight="%d"`, t.FontWeight)
	}
	if t.LetterSpacing != 0 {
		fmt.Fprintf(buf, ` letter-spacing="%s"`, num(t.LetterSpacing))
	}
	fmt.Fprintf(buf, ` fill="%s"`, EscapeXML(t.Fill))
	if t.FillOpacity > 0 {
		fmt.Fprintf(buf, ` fill-opacity="%s"`, num(t.FillOpacity))
	}
	if t.Overline {
		buf.WriteString(` text-decoration="overline"`)
	}
	if t.TextLength > 0 {
		fmt.Fprintf(buf, ` textLength="%s" lengthAdjust="spacingAndGlyphs"`, num(t.TextLength))
	}
	fmt.Fprintf(buf, ">%s</text>\n", EscapeXML(t.Content))
}

// num formats a length with at most four decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
