package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/opdsreader/pkg/app/styles"
	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/kerbaras/opdsreader/pkg/services"
)

type DetailsScreen struct {
	controller      *services.ReaderController
	series          data.Series
	chapters        []data.Chapter
	progress        map[string]*data.Progress
	selectedChapter int
	loading         bool
	width           int
	height          int
	err             error
}

func NewDetailsScreen(controller *services.ReaderController, series data.Series, width, height int) *DetailsScreen {
	return &DetailsScreen{
		controller: controller,
		series:     series,
		progress:   map[string]*data.Progress{},
		width:      width,
		height:     height,
	}
}

func (s *DetailsScreen) Init() tea.Cmd {
	s.loading = true
	return s.loadChapters
}

func (s *DetailsScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selectedChapter > 0 {
				s.selectedChapter--
			}
		case "down", "j":
			if s.selectedChapter < len(s.chapters)-1 {
				s.selectedChapter++
			}
		case "r":
			s.loading = true
			return s, s.loadChapters
		case "enter":
			if s.selectedChapter < len(s.chapters) {
				req := openChapter{series: s.series, chapter: s.chapters[s.selectedChapter]}
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "reader", Data: req}
				}
			}
		case "esc", "backspace":
			return s, func() tea.Msg {
				return SwitchScreenMsg{Screen: "library", Data: nil}
			}
		}

	case chaptersLoadedMsg:
		s.loading = false
		s.err = msg.err
		if msg.err == nil {
			s.chapters = msg.chapters
			s.progress = msg.progress
			if s.selectedChapter >= len(s.chapters) {
				s.selectedChapter = 0
			}
		}
	}

	return s, nil
}

func (s *DetailsScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render(fmt.Sprintf("📖 %s", s.series.Title))

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
		errorMsg += "\n\n"
	}

	var chaptersList string
	if s.loading {
		chaptersList = styles.StatusLoading.Render("Loading chapters...")
	} else {
		chaptersList = s.renderChaptersList()
	}

	help := styles.HelpStyle.Render(
		"↑/k ↓/j: navigate • enter: read • r: refresh • esc: back • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s%s\n%s", header, errorMsg, chaptersList, help)
}

func (s *DetailsScreen) visibleChapters() int {
	n := s.height - 10
	if n < 5 {
		n = 5
	}
	return n
}

func (s *DetailsScreen) renderChaptersList() string {
	if len(s.chapters) == 0 {
		return styles.MutedStyle.Render("No chapters available")
	}

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("Chapters (%d total):", len(s.chapters))))
	b.WriteString("\n\n")

	limit := s.visibleChapters()
	start := 0
	end := len(s.chapters)
	if end > limit {
		start = s.selectedChapter - limit/2
		if start < 0 {
			start = 0
		}
		end = start + limit
		if end > len(s.chapters) {
			end = len(s.chapters)
			start = end - limit
		}
	}

	for i := start; i < end; i++ {
		ch := s.chapters[i]
		statusIcon, statusColor, marker := s.chapterStatus(ch.ID)

		line := fmt.Sprintf("%s %s", statusIcon, ch.Title)
		if marker != "" {
			line = fmt.Sprintf("%s  %s", line, marker)
		}

		if i == s.selectedChapter {
			line = styles.SelectedStyle.Render(line)
		} else {
			line = statusColor.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(s.chapters) > limit {
		b.WriteString("\n")
		b.WriteString(styles.MutedStyle.Render(
			fmt.Sprintf("Showing %d-%d of %d chapters", start+1, end, len(s.chapters)),
		))
	}

	return b.String()
}

// chapterStatus picks the icon, color and resume marker of a chapter.
func (s *DetailsScreen) chapterStatus(chapterID string) (string, lipgloss.Style, string) {
	p, ok := s.progress[chapterID]
	switch {
	case !ok || p == nil:
		return "○", styles.MutedStyle, ""
	case p.Finished():
		return "●", styles.StatusCompleted, "read"
	default:
		return "◐", styles.StatusWarning, fmt.Sprintf("p. %d/%d", p.Page+1, p.PageCount)
	}
}

// Messages
type chaptersLoadedMsg struct {
	chapters []data.Chapter
	progress map[string]*data.Progress
	err      error
}

// Commands
func (s *DetailsScreen) loadChapters() tea.Msg {
	chapters, progress, err := s.controller.ListChapters(context.Background(), s.series.ID)
	return chaptersLoadedMsg{chapters: chapters, progress: progress, err: err}
}
