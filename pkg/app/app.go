package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/opdsreader/pkg/app/screens"
	"github.com/kerbaras/opdsreader/pkg/services"
)

type App struct {
	controller *services.ReaderController
	opts       screens.Options
}

func NewApp(controller *services.ReaderController, opts screens.Options) *App {
	return &App{controller: controller, opts: opts}
}

func (a *App) Run() error {
	model := screens.NewRootScreen(a.controller, a.opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
