package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/statboard/pkg/f1"
)

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)

// newTable returns a rounded table in the CLI palette. Numeric columns are
// right-aligned.
func newTable(headers []string, rows [][]string, numeric ...int) *table.Table {
	right := make(map[int]bool, len(numeric))
	for _, col := range numeric {
		right[col] = true
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle.Padding(0, 1)
			}
			s := lipgloss.NewStyle().Padding(0, 1).Foreground(colorValue)
			if right[col] {
				s = s.Align(lipgloss.Right).Foreground(colorAccent)
			}
			return s
		})
}

func kpiTable(k f1.KPI) *table.Table {
	return newTable(
		[]string{"Rows", "Races", "Drivers", "Avg points"},
		[][]string{{
			humanize.Comma(int64(k.Rows)),
			humanize.Comma(int64(k.Races)),
			humanize.Comma(int64(k.Drivers)),
			fmt.Sprintf("%.2f", k.AvgPoints),
		}},
		0, 1, 2, 3,
	)
}

func totalsTable(name string, totals []f1.Total) *table.Table {
	rows := make([][]string, len(totals))
	for i, t := range totals {
		rows[i] = []string{fmt.Sprintf("%d", i+1), t.Name, humanize.Commaf(t.Points)}
	}
	return newTable([]string{"#", name, "Points"}, rows, 0, 2)
}
