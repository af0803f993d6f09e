package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently read chapters",
	Long:  "List saved reading positions, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		history, err := controller.History(limit)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to load history: %w", err))
		}

		if len(history) == 0 {
			fmt.Println("🕮  Nothing read yet. Run 'opdsreader' to start reading.")
			return
		}

		columns := []table.Column{
			{Title: "Series", Width: 30},
			{Title: "Chapter", Width: 30},
			{Title: "Progress", Width: 10},
			{Title: "Last read", Width: 17},
		}

		rows := []table.Row{}
		for _, p := range history {
			_, marker := progressMarker(p)
			rows = append(rows, table.Row{
				truncateString(p.SeriesTitle, 28),
				truncateString(p.ChapterTitle, 28),
				marker,
				p.UpdatedAt.Local().Format("2006-01-02 15:04"),
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.UnsetForeground().UnsetBackground()
		t.SetStyles(s)

		fmt.Printf("\n🕮  Reading history (%d)\n\n", len(history))
		fmt.Println(t.View())
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of entries")
}
