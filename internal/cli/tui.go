package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/statboard/pkg/nfl"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// TeamListModel - Interactive team selection
// =============================================================================

// TeamListModel is the bubbletea model for picking a team. Each row shows
// the team's latest rolling EPA values and net tier.
type TeamListModel struct {
	Teams    []nfl.TeamWeek
	Cursor   int
	Selected string
	Height   int
	Offset   int
}

// NewTeamListModel creates a team list model.
func NewTeamListModel(teams []nfl.TeamWeek) TeamListModel {
	return TeamListModel{Teams: teams, Height: 15}
}

func (m TeamListModel) Init() tea.Cmd {
	return nil
}

func (m TeamListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Teams)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Teams) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Teams[m.Cursor].Team
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m TeamListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Team"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Teams))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		t := m.Teams[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor, t.Team, fmt.Sprintf("%d", t.Week),
			formatEPA(t.Off), formatEPA(t.Def), formatEPA(t.Net),
			nfl.NetTier(t.Net).Name,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Team", "Week", "Off", "Def", "Net", "Tier").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			base := lipgloss.NewStyle()
			if col >= 2 && col <= 5 {
				base = base.Align(lipgloss.Right)
			}
			idx := m.Offset + row
			if idx >= len(m.Teams) {
				return base
			}
			if col == 6 {
				base = base.Foreground(lipgloss.Color(nfl.NetTier(m.Teams[idx].Net).Color))
			}
			if idx == m.Cursor {
				if col != 6 {
					base = base.Foreground(colorAccent)
				}
				return base.Bold(true)
			}
			if col == 6 {
				return base
			}
			return base.Foreground(colorValue)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Teams))))

	return b.String()
}

// pickTeam runs the team picker and returns the chosen abbreviation, or ""
// when the user quits.
func pickTeam(teams []nfl.TeamWeek) (string, error) {
	final, err := tea.NewProgram(NewTeamListModel(teams)).Run()
	if err != nil {
		return "", fmt.Errorf("team picker: %w", err)
	}
	return final.(TeamListModel).Selected, nil
}

func formatEPA(v float64) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%+.3f", v)
}
