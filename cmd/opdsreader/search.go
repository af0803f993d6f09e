package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the library by title",
	Long:  "Find series of the configured library whose title contains the query",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")

		result, err := controller.ListSeries(context.Background())
		if err != nil {
			cobra.CheckErr(fmt.Errorf("search failed: %w", err))
		}

		matches := matchSeries(result.Series, query)
		if len(matches) == 0 {
			fmt.Println("No results found.")
			return
		}

		var (
			purple = lipgloss.Color("99")

			headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
			cellStyle   = lipgloss.NewStyle().Padding(0, 1)
		)

		t := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(purple)).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				default:
					return cellStyle
				}
			}).
			Headers("#", "Title", "ID")

		for i, s := range matches {
			t.Row(fmt.Sprintf("%d", i+1), truncateString(s.Title, 58), s.ID)
		}

		fmt.Println(t)
	},
}

// matchSeries keeps the series whose title contains query, ignoring case.
func matchSeries(series []data.Series, query string) []data.Series {
	q := strings.ToLower(strings.TrimSpace(query))
	return lo.Filter(series, func(s data.Series, _ int) bool {
		return strings.Contains(strings.ToLower(s.Title), q)
	})
}
