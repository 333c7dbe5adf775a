package main

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/gomlx/spanalign/diagnostics"
	"github.com/gomlx/spanalign/evaluate"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = cellStyle.Foreground(lipgloss.Color("208"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...)
}

// printSummary prints the run counts followed by the diagnostics counts, warnings highlighted.
func printSummary(title string, rows [][]string, collector *diagnostics.Collector) {
	fmt.Println(titleStyle.Render(title))
	fmt.Println(newTable("", "count").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Rows(rows...))

	counts := collector.Counts()
	if len(counts) == 0 {
		return
	}
	kinds := make([]diagnostics.Kind, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	diagRows := make([][]string, len(kinds))
	for i, kind := range kinds {
		diagRows[i] = []string{kind.String(), fmt.Sprint(counts[kind])}
	}
	fmt.Println(newTable("diagnostic", "count").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case kinds[row].IsWarning():
				return warnStyle
			default:
				return cellStyle
			}
		}).
		Rows(diagRows...))
}

func printReport(auto, gold string, report evaluate.Report) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("evaluate %q against %q", auto, gold)))
	fmt.Println(newTable("", "value").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Rows(
			[]string{"documents", fmt.Sprint(report.Documents)},
			[]string{"skipped", fmt.Sprint(report.Skipped)},
			[]string{"missing " + auto, fmt.Sprint(report.MissingAuto)},
			[]string{"missing " + gold, fmt.Sprint(report.MissingGold)},
			[]string{"true positives", fmt.Sprint(report.Counts.TruePositives)},
			[]string{"false positives", fmt.Sprint(report.Counts.FalsePositives)},
			[]string{"false negatives", fmt.Sprint(report.Counts.FalseNegatives)},
			[]string{"precision", report.Precision.String()},
			[]string{"recall", report.Recall.String()},
			[]string{"f1", report.F1.String()},
		))
}
