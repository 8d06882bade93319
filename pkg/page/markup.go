package page

import (
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/matzehuels/iclabels/pkg/errors"
)

// Markup element names.
const (
	LabelsElement = "ic-labels"
	ChipElement   = "ic-chip"
)

// ParseMarkup reads a sheet from <ic-labels> markup. The element may stand
// alone or sit anywhere inside a full HTML document; only the first one is
// used. Every <ic-chip> below it becomes an entry, in document order. Chip
// elements with blank text are ignored.
//
// Attribute names are case-insensitive. Unparseable numbers keep their
// defaults; an invalid margins value keeps the default margins.
func ParseMarkup(r io.Reader) (*Sheet, error) {
	return ParseMarkupWith(r, NewSheet())
}

// ParseMarkupWith is ParseMarkup with base supplying the paper, margins and
// renderer settings that the markup does not set. Entries of base are kept
// ahead of the parsed ones.
func ParseMarkupWith(r io.Reader, base *Sheet) (*Sheet, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSheet, err, "parse sheet markup")
	}
	root := findElement(doc, LabelsElement)
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidSheet, "no <%s> element found", LabelsElement)
	}

	s := &Sheet{Paper: base.Paper, Margins: base.Margins, Config: base.Config}
	s.Entries = append(s.Entries, base.Entries...)
	applyLabelsAttrs(s, attrMap(root))

	walkElements(root, ChipElement, func(n *html.Node) {
		name := strings.TrimSpace(textContent(n))
		if name == "" {
			return
		}
		attrs := attrMap(n)
		family := attrs["family"]
		if family == "" {
			family = attrs["type"]
		}
		s.Add(Entry{
			Name:   name,
			Count:  parseCount(attrs["count"]),
			Family: family,
			Series: attrs["series"],
		})
	})
	return s, nil
}

func applyLabelsAttrs(s *Sheet, attrs map[string]string) {
	if v, ok := attrs["paper"]; ok {
		s.Paper = ParsePaper(v)
	}
	s.Margins = ParseMargins(attrs["margins"], s.Margins)

	cfg := &s.Config
	cfg.PinPitch = parseFloat(attrs, "pindistance", cfg.PinPitch)
	cfg.HeightSizeAdjust = parseFloat(attrs, "heightsizeadjust", cfg.HeightSizeAdjust)
	cfg.StrokeWidth = parseFloat(attrs, "svgstrokewidth", cfg.StrokeWidth)
	cfg.StrokeOffset = parseFloat(attrs, "svgstrokeoffset", cfg.StrokeOffset)
	if v, ok := attrs["defaultchiplogicfamily"]; ok {
		cfg.DefaultFamily = v
	}
	if v, ok := attrs["defaultchipseries"]; ok {
		cfg.DefaultSeries = v
	}
	if v, ok := attrs["gimmecolor"]; ok {
		cfg.Color = ParseBool(v, cfg.Color)
	}
	if v := attrs["pinfontfamily"]; strings.TrimSpace(v) != "" {
		cfg.PinFontFamily = v
	}
}

// ParseBool reads a markup boolean. A present but empty value is true;
// "false", "0" and "no" are false; "true", "1" and "yes" are true; anything
// else is def.
func ParseBool(v string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return def
}

func parseFloat(attrs map[string]string, key string, def float64) float64 {
	v, ok := attrs[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// parseCount returns max(1, floor(v)), and 1 for anything unparseable.
func parseCount(v string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || f < 1 {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(f))
}

// attrMap returns the attributes of n. The HTML parser already lowercases
// attribute names.
func attrMap(n *html.Node) map[string]string {
	m := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		if _, dup := m[a.Key]; !dup {
			m[a.Key] = a.Val
		}
	}
	return m
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func walkElements(n *html.Node, name string, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == name {
			fn(c)
		}
		walkElements(c, name, fn)
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
