package page

import (
	"github.com/matzehuels/iclabels/pkg/label"
)

// Entry is one chip line of a sheet, drawn Count times.
type Entry struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Family string `json:"family,omitempty"`
	Series string `json:"series,omitempty"`
}

// Sheet is a complete page description: paper, margins, renderer settings
// and the ordered chip entries.
type Sheet struct {
	Paper   Paper        `json:"paper"`
	Margins Margins      `json:"margins"`
	Config  label.Config `json:"config"`
	Entries []Entry      `json:"entries"`
}

// NewSheet returns an empty sheet with the default paper, margins and
// renderer settings.
func NewSheet() *Sheet {
	return &Sheet{
		Paper:   DefaultPaper,
		Margins: DefaultMargins,
		Config:  label.DefaultConfig(),
	}
}

// Add appends an entry. Counts below one are raised to one.
func (s *Sheet) Add(e Entry) {
	if e.Count < 1 {
		e.Count = 1
	}
	s.Entries = append(s.Entries, e)
}

// Instances expands the entries into one request per drawn chip, in order.
func (s *Sheet) Instances() []label.Request {
	var reqs []label.Request
	for _, e := range s.Entries {
		n := max(1, e.Count)
		for range n {
			reqs = append(reqs, label.Request{Name: e.Name, Family: e.Family, Series: e.Series})
		}
	}
	return reqs
}

// RenderConfig returns the renderer settings for the sheet's content area.
func (s *Sheet) RenderConfig() label.Config {
	cfg := s.Config
	cfg.PageWidth, cfg.PageHeight = ContentArea(s.Paper, s.Margins)
	return cfg
}
