package screens

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/kerbaras/opdsreader/pkg/services"
)

type screenType int

const (
	libraryView screenType = iota
	detailsView
	readerView
)

// Options tune the screens.
type Options struct {
	// FallbackHeight is the height, in column units, given to a page whose
	// size is not known yet.
	FallbackHeight int
}

// SwitchScreenMsg asks the root screen to change view.
type SwitchScreenMsg struct {
	Screen string
	Data   interface{}
}

// openChapter is the Data of a switch to the reader.
type openChapter struct {
	series  data.Series
	chapter data.Chapter
}

type RootScreen struct {
	controller *services.ReaderController
	opts       Options

	currentView screenType
	library     *LibraryScreen
	details     *DetailsScreen
	reader      *ReaderScreen

	width  int
	height int
}

func NewRootScreen(controller *services.ReaderController, opts Options) *RootScreen {
	if opts.FallbackHeight <= 0 {
		opts.FallbackHeight = 40
	}
	return &RootScreen{
		controller:  controller,
		opts:        opts,
		currentView: libraryView,
		library:     NewLibraryScreen(controller),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return r.library.Init()
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return r, r.quit()
		case "q":
			if !(r.currentView == libraryView && r.library.Filtering()) {
				return r, r.quit()
			}
		}

	case SwitchScreenMsg:
		switch msg.Screen {
		case "library":
			r.currentView = libraryView
		case "details":
			if series, ok := msg.Data.(data.Series); ok {
				r.details = NewDetailsScreen(r.controller, series, r.width, r.height)
			}
			if r.details != nil {
				r.currentView = detailsView
				cmd = r.details.Init()
			}
		case "reader":
			if req, ok := msg.Data.(openChapter); ok {
				r.reader = NewReaderScreen(r.controller, req.series, req.chapter, r.opts, r.width, r.height)
				r.currentView = readerView
				cmd = r.reader.Init()
			}
		}
		return r, cmd
	}

	// Forward message to active screen
	switch r.currentView {
	case libraryView:
		newModel, newCmd := r.library.Update(msg)
		r.library = newModel.(*LibraryScreen)
		return r, newCmd
	case detailsView:
		if r.details != nil {
			newModel, newCmd := r.details.Update(msg)
			r.details = newModel.(*DetailsScreen)
			return r, newCmd
		}
	case readerView:
		if r.reader != nil {
			newModel, newCmd := r.reader.Update(msg)
			r.reader = newModel.(*ReaderScreen)
			return r, newCmd
		}
	}

	return r, cmd
}

// quit stops any probing and keeps the reading position before exiting.
func (r *RootScreen) quit() tea.Cmd {
	if r.reader != nil {
		r.reader.Close()
	}
	return tea.Quit
}

func (r *RootScreen) View() string {
	switch r.currentView {
	case detailsView:
		if r.details != nil {
			return r.details.View()
		}
	case readerView:
		if r.reader != nil {
			return r.reader.View()
		}
	}
	return r.library.View()
}
