package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorFaint)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
)

// typesTable renders descriptors as a table. chosen, when non-empty, is
// marked as the automatic choice; cursor < 0 hides the cursor column marker.
func typesTable(descs []*vis.Descriptor, chosen string, cursor, offset, height int) string {
	end := len(descs)
	if height > 0 && offset+height < end {
		end = offset + height
	}

	rows := [][]string{}
	for i := offset; i < end; i++ {
		d := descs[i]
		mark := "  "
		if i == cursor {
			mark = "▸ "
		}
		auto := ""
		if d.Type == chosen {
			auto = "auto"
		}
		rows = append(rows, []string{mark, d.Type, strconv.Itoa(d.Priority), d.Description, auto})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "Type", "Priority", "Description", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := offset + row
			if idx >= len(descs) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 2 || col == 3 {
				base = base.Foreground(colorMuted)
			}
			if col == 4 {
				base = base.Foreground(colorOK)
			}
			if idx == cursor {
				if col == 1 {
					return base.Foreground(colorAccent).Bold(true)
				}
				return base.Bold(true)
			}
			return base
		})
	return t.Render()
}

// =============================================================================
// ChartListModel - Interactive chart type selection
// =============================================================================

// ChartListModel is the bubbletea model for choosing a chart type among the
// candidates for a dataset.
type ChartListModel struct {
	Candidates []*vis.Descriptor
	Chosen     string
	Records    int
	Cursor     int
	Selected   *vis.Descriptor
	Height     int
	Offset     int
}

// NewChartListModel creates a list with the cursor on the automatic choice.
func NewChartListModel(candidates []*vis.Descriptor, chosen string, records int) ChartListModel {
	m := ChartListModel{
		Candidates: candidates,
		Chosen:     chosen,
		Records:    records,
		Height:     10,
	}
	for i, d := range candidates {
		if d.Type == chosen {
			m.Cursor = i
			break
		}
	}
	if m.Cursor >= m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m ChartListModel) Init() tea.Cmd {
	return nil
}

func (m ChartListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Candidates)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Candidates) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Candidates[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m ChartListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Chart Type"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d records  ↑/↓ navigate  ⏎ select  q quit", m.Records)))
	b.WriteString("\n\n")
	b.WriteString(typesTable(m.Candidates, m.Chosen, m.Cursor, m.Offset, m.Height))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Candidates))))

	return b.String()
}
