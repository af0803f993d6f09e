package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/spf13/cobra"
)

var seriesCmd = &cobra.Command{
	Use:     "series",
	Aliases: []string{"list"},
	Short:   "List all series in the library",
	Long:    "Display every series of the configured library in a formatted table",
	Run: func(cmd *cobra.Command, args []string) {
		result, err := controller.ListSeries(context.Background())
		if err != nil {
			cobra.CheckErr(err)
		}

		if len(result.Series) == 0 {
			fmt.Println("📚 No series in library.")
		} else {
			fmt.Printf("\n📚 Library %s (%d series)\n\n", cfg.Server.LibraryID, len(result.Series))
			fmt.Println(seriesTable(result.Series).View())
		}

		showSkipped, _ := cmd.Flags().GetBool("skipped")
		if len(result.Errors) > 0 {
			fmt.Printf("\n⚠️  %d catalog entries skipped\n", len(result.Errors))
			if showSkipped {
				for _, merr := range result.Errors {
					fmt.Printf("  #%d %s (%s): %v\n", merr.Position+1, merr.Title, merr.EntryID, merr.Err)
				}
			} else {
				fmt.Println("💡 Use --skipped to see why.")
			}
		}
	},
}

func init() {
	seriesCmd.Flags().Bool("skipped", false, "Show catalog entries that could not be listed")
}

func seriesTable(series []data.Series) table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Title", Width: 50},
		{Title: "Cover", Width: 6},
	}

	rows := []table.Row{}
	for _, s := range series {
		cover := "yes"
		if s.ThumbnailPath == "" {
			cover = "-"
		}
		rows = append(rows, table.Row{
			s.ID,
			truncateString(s.Title, 48),
			cover,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)),
	)

	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(st)

	return t
}
