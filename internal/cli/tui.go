package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/glow/pkg/integrations/tableau"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DatasourceListModel - Interactive data source selection
// =============================================================================

// DatasourceListModel is the bubbletea model for picking the data sources
// a fetch should cover.
type DatasourceListModel struct {
	Datasources []tableau.Datasource
	Cursor      int
	Checked     map[int]bool
	Confirmed   bool
	Height      int
	Offset      int
}

// NewDatasourceListModel creates a new data source list model with nothing
// checked.
func NewDatasourceListModel(sources []tableau.Datasource) DatasourceListModel {
	return DatasourceListModel{
		Datasources: sources,
		Checked:     make(map[int]bool),
		Height:      15,
	}
}

// Selected returns the names of the checked data sources in list order.
// Confirming with nothing checked selects the one under the cursor.
func (m DatasourceListModel) Selected() []string {
	if !m.Confirmed || len(m.Datasources) == 0 {
		return nil
	}
	var names []string
	for i, ds := range m.Datasources {
		if m.Checked[i] {
			names = append(names, ds.Name)
		}
	}
	if len(names) == 0 {
		names = []string{m.Datasources[m.Cursor].Name}
	}
	return names
}

func (m DatasourceListModel) Init() tea.Cmd {
	return nil
}

func (m DatasourceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Datasources)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			all := len(m.checked()) < len(m.Datasources)
			for i := range m.Datasources {
				m.Checked[i] = all
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m DatasourceListModel) checked() []int {
	var idx []int
	for i := range m.Datasources {
		if m.Checked[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

func (m DatasourceListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Data Sources"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ fetch  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Datasources))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		ds := m.Datasources[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Checked[i] {
			check = "[x]"
		}

		project := ds.Project.Name
		if project == "" {
			project = "-"
		}
		extract := ""
		if ds.HasExtracts {
			extract = "✓"
		}

		rows = append(rows, []string{cursor + check, ds.Name, project, extract, formatRelativeTime(ds.UpdatedAt)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Data Source", "Project", "Extract", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			idx := m.Offset + row
			if idx >= len(m.Datasources) {
				return lipgloss.NewStyle()
			}
			isCurrent := idx == m.Cursor

			base := lipgloss.NewStyle()
			if col >= 3 {
				if isCurrent {
					return base.Foreground(colorGray).Bold(true)
				}
				return base.Foreground(colorDim)
			}
			switch {
			case isCurrent:
				return base.Foreground(colorTeal).Bold(true)
			case m.Checked[idx]:
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d selected", m.Cursor+1, len(m.Datasources), len(m.checked()))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}

	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
