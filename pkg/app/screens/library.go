package screens

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/opdsreader/pkg/app/components"
	"github.com/kerbaras/opdsreader/pkg/app/styles"
	"github.com/kerbaras/opdsreader/pkg/opds"
	"github.com/kerbaras/opdsreader/pkg/services"
)

type LibraryScreen struct {
	controller  *services.ReaderController
	seriesList  *components.SeriesList
	filter      textinput.Model
	skipped     []*opds.MappingError
	showSkipped bool
	loading     bool
	width       int
	height      int
	err         error
}

func NewLibraryScreen(controller *services.ReaderController) *LibraryScreen {
	ti := textinput.New()
	ti.Placeholder = "Filter series..."
	ti.CharLimit = 100
	ti.Width = 50

	return &LibraryScreen{
		controller: controller,
		seriesList: components.NewSeriesList(),
		filter:     ti,
	}
}

func (s *LibraryScreen) Init() tea.Cmd {
	s.loading = true
	return s.loadLibrary
}

// Filtering reports whether keystrokes go to the filter input.
func (s *LibraryScreen) Filtering() bool {
	return s.filter.Focused()
}

func (s *LibraryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.seriesList.Width = msg.Width - 4
		s.seriesList.Height = msg.Height - 12

	case tea.KeyMsg:
		if s.filter.Focused() {
			switch msg.String() {
			case "enter":
				s.filter.Blur()
				return s, nil
			case "esc":
				s.filter.Blur()
				s.filter.SetValue("")
				s.seriesList.SetFilter("")
				return s, nil
			}
			s.filter, cmd = s.filter.Update(msg)
			s.seriesList.SetFilter(s.filter.Value())
			return s, cmd
		}

		switch msg.String() {
		case "up", "k":
			s.seriesList.Prev()
		case "down", "j":
			s.seriesList.Next()
		case "/":
			s.filter.Focus()
			return s, textinput.Blink
		case "esc":
			s.filter.SetValue("")
			s.seriesList.SetFilter("")
		case "w":
			s.showSkipped = !s.showSkipped
		case "r":
			s.loading = true
			return s, s.loadLibrary
		case "enter":
			selected := s.seriesList.Selected()
			if selected != nil {
				series := *selected
				return s, func() tea.Msg {
					return SwitchScreenMsg{Screen: "details", Data: series}
				}
			}
		}

	case libraryLoadedMsg:
		s.loading = false
		s.err = msg.err
		if msg.err == nil {
			s.seriesList.SetItems(msg.result.Series)
			s.skipped = msg.result.Errors
		}
	}

	return s, nil
}

func (s *LibraryScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("📚 Library")

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
		errorMsg += "\n\n"
	}

	var filterView string
	if s.filter.Focused() || s.filter.Value() != "" {
		inputStyle := styles.InputStyle
		if s.filter.Focused() {
			inputStyle = styles.FocusedInputStyle
		}
		filterView = inputStyle.Render(s.filter.View()) + "\n"
	}

	var body string
	if s.loading {
		body = styles.StatusLoading.Render("Loading library...")
	} else {
		body = s.seriesList.View()
	}

	help := styles.HelpStyle.Render(
		"↑/k: up • ↓/j: down • enter: chapters • /: filter • w: skipped entries • r: refresh • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s%s%s\n%s\n%s", header, errorMsg, filterView, body, s.renderSkipped(), help)
}

// renderSkipped summarizes the catalog entries that could not be listed.
func (s *LibraryScreen) renderSkipped() string {
	if len(s.skipped) == 0 {
		return ""
	}

	summary := styles.StatusWarning.Render(fmt.Sprintf("%d catalog entries skipped", len(s.skipped)))
	if !s.showSkipped {
		return summary
	}

	var b strings.Builder
	b.WriteString(summary)
	for _, merr := range s.skipped {
		b.WriteString("\n")
		b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("  #%d %s (%s): %v", merr.Position+1, merr.Title, merr.EntryID, merr.Err)))
	}
	return b.String()
}

// Messages
type libraryLoadedMsg struct {
	result opds.SeriesResult
	err    error
}

// Commands
func (s *LibraryScreen) loadLibrary() tea.Msg {
	result, err := s.controller.ListSeries(context.Background())
	return libraryLoadedMsg{result: result, err: err}
}
