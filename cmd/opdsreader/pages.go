package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/kerbaras/opdsreader/pkg/layout"
	"github.com/kerbaras/opdsreader/pkg/services"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages [series-id] [chapter-id]",
	Short: "Resolve the page stream of a chapter",
	Long: `Resolve a chapter's OPDS-PSE page stream and print its page URLs.

With --probe every page image is fetched far enough to read its size, and the
height it takes at --width columns is reported.

Examples:
  opdsreader pages 12 345
  opdsreader pages 12 345 --volume 7 --probe --width 80`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		volume, _ := cmd.Flags().GetString("volume")
		probe, _ := cmd.Flags().GetBool("probe")
		width, _ := cmd.Flags().GetFloat64("width")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		series := data.Series{ID: args[0]}
		chapter, err := findChapter(ctx, args[0], args[1], volume)
		if err != nil {
			cobra.CheckErr(err)
		}

		reading, err := controller.OpenChapter(ctx, series, chapter)
		if err != nil {
			cobra.CheckErr(err)
		}
		stream := reading.Stream

		fmt.Printf("📖 %s: %d pages", chapter.Title, stream.PageCount)
		if reading.StartPage > 0 {
			fmt.Printf(" (resume at page %d)", reading.StartPage+1)
		}
		fmt.Println()

		if !probe {
			for i, url := range stream.PageURLs() {
				fmt.Printf("%4d  %s\n", i+1, url)
			}
			return
		}

		fmt.Printf("🔍 Probing %d pages at %.0f columns...\n\n", stream.PageCount, width)
		rows, err := probePages(ctx, controller.Pages(), stream, width)
		if err != nil {
			cobra.CheckErr(err)
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
			Headers("#", "Size", "Format", "Height").
			Rows(rows...)
		fmt.Println(t)
	},
}

func init() {
	pagesCmd.Flags().String("volume", "", "Volume id, needed when the catalog has no link for the chapter")
	pagesCmd.Flags().Bool("probe", false, "Fetch page headers and report their sizes")
	pagesCmd.Flags().Float64("width", 80, "Viewport width in columns used for the height estimate")
}

// findChapter looks the chapter up in its series so its catalog link is used.
// With a volume the lookup is skipped.
func findChapter(ctx context.Context, seriesID, chapterID, volume string) (data.Chapter, error) {
	if volume != "" {
		return data.Chapter{ID: chapterID, SeriesID: seriesID, Title: "Chapter " + chapterID, VolumeID: volume}, nil
	}

	chapters, _, err := controller.ListChapters(ctx, seriesID)
	if err != nil {
		return data.Chapter{}, err
	}
	chapter, ok := lo.Find(chapters, func(c data.Chapter) bool { return c.ID == chapterID })
	if !ok {
		return data.Chapter{}, fmt.Errorf("chapter %s not found in series %s", chapterID, seriesID)
	}
	return chapter, nil
}

// probePages measures every page and lays it out at width columns.
func probePages(ctx context.Context, pages *services.PageLoader, stream data.PageStream, width float64) ([][]string, error) {
	tbl := layout.NewTable(width)
	results := make([]services.PageResult, stream.PageCount)

	var mu sync.Mutex
	err := pages.ProbeAll(ctx, stream, func(r services.PageResult) {
		mu.Lock()
		defer mu.Unlock()
		if r.Err == nil {
			if _, err := tbl.Observe(r.Index, float64(r.Image.Width), float64(r.Image.Height), width); err != nil {
				r.Err = fmt.Errorf("unusable size %dx%d: %w", r.Image.Width, r.Image.Height, err)
			}
		}
		results[r.Index] = r
	})
	if err != nil {
		return nil, err
	}

	return pageRows(results, tbl), nil
}

// pageRows formats probe results for the pages table. Failed probes and
// rejected sizes show their error in the Height column.
func pageRows(results []services.PageResult, tbl *layout.Table) [][]string {
	rows := make([][]string, len(results))
	for i, r := range results {
		if r.Err != nil {
			size := "-"
			if r.Image.Format != "" {
				size = fmt.Sprintf("%dx%d", r.Image.Width, r.Image.Height)
			}
			rows[i] = []string{fmt.Sprintf("%d", i+1), size, lo.Ternary(r.Image.Format == "", "-", r.Image.Format), truncateString(r.Err.Error(), 40)}
			continue
		}
		h, ok := tbl.Height(i)
		height := "?"
		if ok {
			height = fmt.Sprintf("%.1f", h)
		}
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%dx%d", r.Image.Width, r.Image.Height),
			r.Image.Format,
			height,
		}
	}
	return rows
}
