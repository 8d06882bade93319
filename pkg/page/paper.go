// Package page hosts label render passes: paper presets, margins, the
// declarative <ic-labels> sheet markup and the pass driver that lays out
// every chip instance of a sheet on one page.
package page

import (
	"fmt"
	"strings"
)

// Paper is a paper preset. Dimensions are millimeters.
type Paper struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// CSS is the value of the print @page size property.
	CSS string `json:"css"`
}

var (
	A4     = Paper{Name: "A4", Width: 210.0, Height: 297.0, CSS: "210mm 297mm"}
	Letter = Paper{Name: "Letter", Width: 215.9, Height: 279.4, CSS: "215.9mm 279.4mm"}
)

// DefaultPaper is used when nothing else is selected.
var DefaultPaper = Letter

// Papers lists the presets.
var Papers = []Paper{A4, Letter}

// ParsePaper maps "A4" to A4 and anything else to Letter.
func ParsePaper(name string) Paper {
	if name == A4.Name {
		return A4
	}
	return Letter
}

// LookupPaper finds a preset by case-insensitive name. Unlike ParsePaper it
// reports unknown names.
func LookupPaper(name string) (Paper, bool) {
	for _, p := range Papers {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Paper{}, false
}

// PrintCSS returns the print rule that sizes the printed page to p with
// no printer margin.
func (p Paper) PrintCSS() string {
	return fmt.Sprintf("@media print { @page { size: %s; margin: 0; } }", p.CSS)
}

func (p Paper) String() string {
	return fmt.Sprintf("%s (%g × %g mm)", p.Name, p.Width, p.Height)
}
