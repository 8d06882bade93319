package page

import (
	"math"
	"strconv"
	"strings"
)

// Margins are page margins in millimeters.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// DefaultMargins is 10mm on every side.
var DefaultMargins = Uniform(10)

// Uniform returns margins of v on every side.
func Uniform(v float64) Margins { return Margins{v, v, v, v} }

// ParseMargins reads one to four whitespace-separated numbers in CSS
// shorthand order: all; vertical horizontal; top horizontal bottom; top
// right bottom left. Extra values are ignored. Empty input or any token
// that is not a finite number yields fallback.
func ParseMargins(raw string, fallback Margins) Margins {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return fallback
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fallback
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return Uniform(vals[0])
	case 2:
		return Margins{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
	case 3:
		return Margins{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
	default:
		return Margins{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
	}
}

// String formats m in four-value shorthand, suitable for ParseMargins.
func (m Margins) String() string {
	parts := []string{fmtMM(m.Top), fmtMM(m.Right), fmtMM(m.Bottom), fmtMM(m.Left)}
	return strings.Join(parts, " ")
}

func fmtMM(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// ContentArea returns the printable width and height of paper inside m.
func ContentArea(paper Paper, m Margins) (width, height float64) {
	return paper.Width - m.Left - m.Right, paper.Height - m.Top - m.Bottom
}
