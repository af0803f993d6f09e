package screens

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/opdsreader/pkg/app/components"
	"github.com/kerbaras/opdsreader/pkg/app/styles"
	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/kerbaras/opdsreader/pkg/layout"
	"github.com/kerbaras/opdsreader/pkg/logging"
	"github.com/kerbaras/opdsreader/pkg/services"
)

const (
	// lines taken by the title, status, progress bar and help around the pages
	readerChrome = 6
	minPageRows  = 3
	minPageWidth = 10
)

// Every reader gets a fresh session; messages carrying another session's
// token belong to a chapter that was left and are dropped.
var readerSessions atomic.Int64

// ReaderScreen shows a chapter as one vertical stream of page blocks. A page
// is drawn at its scaled height once its image has been probed, and at the
// fallback height until then. Terminal cells are about twice as tall as they
// are wide, so a height of h column units takes h/2 rows.
type ReaderScreen struct {
	controller *services.ReaderController
	series     data.Series
	chapter    data.Chapter
	opts       Options
	session    int64

	reading  *services.Reading
	table    *layout.Table
	images   map[int]services.PageImage
	tracker  *components.ProbeTracker
	cancel   context.CancelFunc
	viewport viewport.Model
	offsets  []int
	current  int
	closed   bool

	width  int
	height int
	err    error
}

func NewReaderScreen(controller *services.ReaderController, series data.Series, chapter data.Chapter, opts Options, width, height int) *ReaderScreen {
	s := &ReaderScreen{
		controller: controller,
		series:     series,
		chapter:    chapter,
		opts:       opts,
		session:    readerSessions.Add(1),
		images:     make(map[int]services.PageImage),
		viewport:   viewport.New(0, 0),
	}
	s.resize(width, height)
	return s
}

func (s *ReaderScreen) Init() tea.Cmd {
	return s.openChapter
}

func (s *ReaderScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.resize(msg.Width, msg.Height)
		return s, nil

	case chapterOpenedMsg:
		if msg.session != s.session || s.closed {
			return s, nil
		}
		if msg.err != nil {
			s.err = msg.err
			return s, nil
		}
		return s, s.start(msg.reading)

	case pageProbedMsg:
		if msg.session != s.session || s.closed || s.reading == nil {
			return s, nil
		}
		s.observe(msg.result)
		return s, listenForPages(msg.session, msg.results)

	case probesDoneMsg:
		if msg.session == s.session && s.tracker != nil {
			logging.Debug("page probes finished", "chapter", s.chapter.ID, "probed", s.tracker.Done(), "failed", s.tracker.Failed())
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "backspace":
			s.Close()
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "details", Data: nil}
			}
		case "n", " ", "l", "right":
			s.gotoPage(s.current + 1)
			return s, nil
		case "p", "h", "left":
			s.gotoPage(s.current - 1)
			return s, nil
		case "g", "home":
			s.gotoPage(0)
			return s, nil
		case "G", "end":
			if s.reading != nil {
				s.gotoPage(s.reading.Stream.PageCount - 1)
			}
			return s, nil
		}
		s.viewport, cmd = s.viewport.Update(msg)
		s.syncCurrent()

	case tea.MouseMsg:
		s.viewport, cmd = s.viewport.Update(msg)
		s.syncCurrent()
	}

	return s, cmd
}

// start lays out the opened chapter and begins probing its pages.
func (s *ReaderScreen) start(reading *services.Reading) tea.Cmd {
	s.reading = reading
	s.table = layout.NewTable(s.pageColumns())
	s.tracker = components.NewProbeTracker(reading.Stream.PageCount, s.width)
	s.current = reading.StartPage
	s.render()
	s.scrollToPage(s.current, 0)

	pages := s.controller.Pages()
	if pages == nil || reading.Stream.PageCount == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	return listenForPages(s.session, pages.Stream(ctx, reading.Stream))
}

// observe lays out a probed page. A size the layout rejects marks the page
// as failed, the same as a failed probe.
func (s *ReaderScreen) observe(result services.PageResult) {
	if result.Err == nil {
		s.images[result.Index] = result.Image
		_, err := s.table.Observe(result.Index, float64(result.Image.Width), float64(result.Image.Height), s.pageColumns())
		if err != nil {
			logging.Warn("page layout rejected", "chapter", s.chapter.ID, "page", result.Index, "err", err)
			result.Err = fmt.Errorf("unusable size %dx%d: %w", result.Image.Width, result.Image.Height, err)
		}
	}
	s.tracker.Update(result)
	s.rerender()
}

// Close stops outstanding probes and saves the reading position. It is safe
// to call more than once.
func (s *ReaderScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true

	if s.cancel != nil {
		s.cancel()
	}
	if s.reading == nil || s.reading.Stream.PageCount == 0 {
		return
	}
	if err := s.controller.SaveProgress(s.reading, s.current); err != nil {
		logging.Error("failed to save progress", "chapter", s.chapter.ID, "err", err)
	}
}

// CurrentPage is the zero-based index of the page at the top of the view.
func (s *ReaderScreen) CurrentPage() int { return s.current }

func (s *ReaderScreen) resize(width, height int) {
	s.width = width
	s.height = height
	s.viewport.Width = width
	s.viewport.Height = height - readerChrome
	if s.viewport.Height < 1 {
		s.viewport.Height = 1
	}

	if s.tracker != nil {
		s.tracker.SetWidth(width)
	}
	if s.table != nil {
		if err := s.table.Resize(s.pageColumns()); err != nil {
			logging.Warn("layout resize rejected", "width", width, "err", err)
		}
		s.rerender()
	}
}

func (s *ReaderScreen) pageColumns() float64 {
	w := s.width - 2
	if w < minPageWidth {
		w = minPageWidth
	}
	return float64(w)
}

func (s *ReaderScreen) pageRows(index int) int {
	h := s.table.HeightOr(index, float64(s.opts.FallbackHeight))
	rows := int(math.Round(h / 2))
	if rows < minPageRows {
		rows = minPageRows
	}
	return rows
}

// render rebuilds the page blocks and their line offsets.
func (s *ReaderScreen) render() {
	if s.reading == nil {
		return
	}

	n := s.reading.Stream.PageCount
	if n == 0 {
		s.offsets = nil
		s.viewport.SetContent(styles.MutedStyle.Render("This chapter has no pages"))
		return
	}

	blocks := make([]string, n)
	s.offsets = make([]int, n+1)
	for i := 0; i < n; i++ {
		rows := s.pageRows(i)
		s.offsets[i+1] = s.offsets[i] + rows
		blocks[i] = s.renderPage(i, rows)
	}
	s.viewport.SetContent(strings.Join(blocks, "\n"))
}

// rerender keeps the reader anchored to the current page while pages above
// it change height.
func (s *ReaderScreen) rerender() {
	if s.reading == nil || len(s.offsets) == 0 {
		s.render()
		return
	}
	within := s.viewport.YOffset - s.offsets[s.current]
	s.render()
	s.scrollToPage(s.current, within)
}

func (s *ReaderScreen) renderPage(index, rows int) string {
	width := int(s.pageColumns())
	label := fmt.Sprintf("Page %d/%d - loading", index+1, s.reading.Stream.PageCount)
	style := styles.PlaceholderPageStyle

	if _, known := s.table.Height(index); known {
		img := s.images[index]
		label = fmt.Sprintf("Page %d/%d - %dx%d %s", index+1, s.reading.Stream.PageCount, img.Width, img.Height, img.Format)
		style = styles.PageStyle
	} else if err := s.tracker.Err(index); err != nil {
		label = fmt.Sprintf("Page %d/%d - failed: %v", index+1, s.reading.Stream.PageCount, err)
	}
	if index == s.current {
		style = styles.CurrentPageStyle
	}

	return style.Width(width).Height(rows - 2).Render(truncate(label, width))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

func (s *ReaderScreen) scrollToPage(index, within int) {
	if index < 0 || index+1 >= len(s.offsets) {
		return
	}
	rows := s.offsets[index+1] - s.offsets[index]
	if within < 0 {
		within = 0
	}
	if within >= rows {
		within = rows - 1
	}
	s.viewport.SetYOffset(s.offsets[index] + within)
}

func (s *ReaderScreen) gotoPage(index int) {
	if s.reading == nil || s.reading.Stream.PageCount == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= s.reading.Stream.PageCount {
		index = s.reading.Stream.PageCount - 1
	}
	s.current = index
	s.render()
	s.scrollToPage(index, 0)
}

// syncCurrent follows free scrolling: the current page is the one at the top
// line of the viewport.
func (s *ReaderScreen) syncCurrent() {
	if len(s.offsets) < 2 {
		return
	}
	y := s.viewport.YOffset
	for i := 0; i+1 < len(s.offsets); i++ {
		if y < s.offsets[i+1] {
			if i != s.current {
				s.current = i
				s.rerender()
			}
			return
		}
	}
}

func (s *ReaderScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.UnsetMarginBottom().Render(fmt.Sprintf("📖 %s - %s", s.series.Title, s.chapter.Title))
	help := styles.HelpStyle.Render("↑/k ↓/j: scroll • n/space: next page • p: previous page • g/G: first/last • esc: back • q: quit")

	if s.err != nil {
		return fmt.Sprintf("%s\n\n%s\n%s", header, styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err)), help)
	}
	if s.reading == nil {
		return fmt.Sprintf("%s\n\n%s\n%s", header, styles.StatusLoading.Render("Opening chapter..."), help)
	}

	position := styles.SubtitleStyle.Render(fmt.Sprintf("Page %d of %d", s.current+1, s.reading.Stream.PageCount))
	if s.reading.Stream.PageCount == 0 {
		position = styles.SubtitleStyle.Render("No pages")
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, position, s.tracker.View(), s.viewport.View(), help)
}

// Messages
type chapterOpenedMsg struct {
	session int64
	reading *services.Reading
	err     error
}

type pageProbedMsg struct {
	session int64
	result  services.PageResult
	results <-chan services.PageResult
}

type probesDoneMsg struct {
	session int64
}

// Commands
func (s *ReaderScreen) openChapter() tea.Msg {
	reading, err := s.controller.OpenChapter(context.Background(), s.series, s.chapter)
	return chapterOpenedMsg{session: s.session, reading: reading, err: err}
}

// listenForPages waits for the next probe result of session.
func listenForPages(session int64, results <-chan services.PageResult) tea.Cmd {
	if results == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return probesDoneMsg{session: session}
		}
		return pageProbedMsg{session: session, result: r, results: results}
	}
}
