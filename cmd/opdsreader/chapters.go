package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/spf13/cobra"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters [series-id]",
	Short: "List the chapters of a series",
	Long:  "Display the chapters of a series together with the saved reading position",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		seriesID := args[0]

		chapters, progress, err := controller.ListChapters(context.Background(), seriesID)
		if err != nil {
			cobra.CheckErr(err)
		}

		if len(chapters) == 0 {
			fmt.Printf("📖 Series %s has no chapters.\n", seriesID)
			return
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
			Headers("", "ID", "Volume", "Title", "Progress")

		for _, ch := range chapters {
			icon, marker := progressMarker(progress[ch.ID])
			t.Row(icon, ch.ID, ch.VolumeID, truncateString(ch.Title, 48), marker)
		}

		fmt.Printf("\n📖 Series %s (%d chapters)\n\n", seriesID, len(chapters))
		fmt.Println(t)
	},
}

// progressMarker describes a bookmark the way the chapter list shows it.
func progressMarker(p *data.Progress) (string, string) {
	switch {
	case p == nil:
		return "○", ""
	case p.Finished():
		return "●", "read"
	default:
		return "◐", fmt.Sprintf("p. %d/%d", p.Page+1, p.PageCount)
	}
}
