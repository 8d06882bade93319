package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/iclabels/pkg/label"
	"github.com/matzehuels/iclabels/pkg/registry"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tableHeaderStyle  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	tableBorderStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ChipListModel - Interactive chip browser
// =============================================================================

// ChipListModel is the bubbletea model for browsing the chip registry. Enter
// opens the pinout of the chip under the cursor; esc goes back.
type ChipListModel struct {
	Chips    []registry.Chip
	Cursor   int
	Offset   int
	Height   int
	Detail   bool
	Selected *registry.Chip
}

// NewChipListModel creates a browser over chips.
func NewChipListModel(chips []registry.Chip) ChipListModel {
	return ChipListModel{Chips: chips, Height: 15}
}

func (m ChipListModel) Init() tea.Cmd {
	return nil
}

func (m ChipListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.Detail && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.Detail && m.Cursor < len(m.Chips)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Chips) == 0 {
				return m, nil
			}
			chip := m.Chips[m.Cursor]
			m.Selected = &chip
			m.Detail = !m.Detail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m ChipListModel) View() string {
	if m.Detail && m.Selected != nil {
		return m.detailView(*m.Selected)
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Chips"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ pinout  q quit"))
	b.WriteString("\n\n")

	if len(m.Chips) == 0 {
		b.WriteString(listDimStyle.Render("  no chips"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Chips))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		c := m.Chips[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, c.Name, orDash(string(c.Category)), orDash(c.Package), strconv.Itoa(len(c.Pins)), c.Description})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("", "Chip", "Category", "Package", "Pins", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 || col == 3 || col == 4 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Chips))))
	return b.String()
}

func (m ChipListModel) detailView(c registry.Chip) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(c.Name))
	if c.Description != "" {
		b.WriteString("  " + listNormalStyle.Render(c.Description))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")
	b.WriteString(pinTable(c))
	b.WriteString("\n")
	return b.String()
}

// pinTable renders the pins of c with each row in its pin type color.
func pinTable(c registry.Chip) string {
	rows := make([][]string, 0, len(c.Pins))
	for _, p := range c.Pins {
		name, low := p.DisplayLabel()
		if low {
			name += " (active low)"
		}
		rows = append(rows, []string{strconv.Itoa(p.Number), name, string(p.Direction), string(p.Type)})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("Pin", "Signal", "Direction", "Type").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if row < 0 || row >= len(c.Pins) {
				return lipgloss.NewStyle()
			}
			if col == 1 || col == 3 {
				return lipgloss.NewStyle().Foreground(pinTypeColor(c.Pins[row].Type))
			}
			return listDimStyle
		}).
		Render()
}

// pinTypeColor maps a pin type to its label color. Black pins would vanish on
// a dark terminal, so they take the default foreground.
func pinTypeColor(t registry.PinType) lipgloss.TerminalColor {
	c := label.PinColor(t, true)
	if c == "#000000" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(c)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
