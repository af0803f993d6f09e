package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kerbaras/opdsreader/pkg/app/styles"
	"github.com/kerbaras/opdsreader/pkg/data"
	"github.com/samber/lo"
)

// rendered height of one card, borders and margin included
const cardHeight = 7

type SeriesList struct {
	Items         []data.Series
	SelectedIndex int
	Width         int
	Height        int

	filter  string
	visible []data.Series
}

func NewSeriesList() *SeriesList {
	return &SeriesList{
		Items:         []data.Series{},
		SelectedIndex: 0,
		Width:         80,
		Height:        20,
		visible:       []data.Series{},
	}
}

func (m *SeriesList) SetItems(items []data.Series) {
	m.Items = items
	m.applyFilter()
}

// SetFilter narrows the list to titles containing query, ignoring case.
func (m *SeriesList) SetFilter(query string) {
	m.filter = strings.TrimSpace(query)
	m.applyFilter()
}

func (m *SeriesList) Filter() string { return m.filter }

func (m *SeriesList) applyFilter() {
	needle := strings.ToLower(m.filter)
	m.visible = lo.Filter(m.Items, func(s data.Series, _ int) bool {
		return needle == "" || strings.Contains(strings.ToLower(s.Title), needle)
	})
	if m.SelectedIndex >= len(m.visible) && len(m.visible) > 0 {
		m.SelectedIndex = len(m.visible) - 1
	}
	if len(m.visible) == 0 {
		m.SelectedIndex = 0
	}
}

func (m *SeriesList) Len() int { return len(m.visible) }

func (m *SeriesList) Next() {
	if len(m.visible) == 0 {
		return
	}
	m.SelectedIndex++
	if m.SelectedIndex >= len(m.visible) {
		m.SelectedIndex = 0
	}
}

func (m *SeriesList) Prev() {
	if len(m.visible) == 0 {
		return
	}
	m.SelectedIndex--
	if m.SelectedIndex < 0 {
		m.SelectedIndex = len(m.visible) - 1
	}
}

func (m *SeriesList) Selected() *data.Series {
	if len(m.visible) == 0 || m.SelectedIndex >= len(m.visible) {
		return nil
	}
	return &m.visible[m.SelectedIndex]
}

// window returns the [start, end) range of visible items that fits Height,
// keeping the selection on screen.
func (m *SeriesList) window() (int, int) {
	perPage := m.Height / cardHeight
	if perPage < 1 {
		perPage = 1
	}
	if len(m.visible) <= perPage {
		return 0, len(m.visible)
	}
	start := m.SelectedIndex - perPage/2
	if start < 0 {
		start = 0
	}
	end := start + perPage
	if end > len(m.visible) {
		end = len(m.visible)
		start = end - perPage
	}
	return start, end
}

func (m *SeriesList) View() string {
	if len(m.visible) == 0 {
		emptyMsg := styles.MutedStyle.Render("No series in library")
		if m.filter != "" {
			emptyMsg = styles.MutedStyle.Render(fmt.Sprintf("No series matching %q", m.filter))
		}
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder
	start, end := m.window()

	for i := start; i < end; i++ {
		series := m.visible[i]
		cardStyle := styles.CardStyle
		if i == m.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		cardContent := lipgloss.JoinVertical(
			lipgloss.Left,
			styles.TitleStyle.UnsetMarginBottom().Render(series.Title),
			styles.MutedStyle.Render(fmt.Sprintf("ID: %s", series.ID)),
		)

		card := cardStyle.Width(m.Width - 4).Render(cardContent)
		b.WriteString(card)
		b.WriteString("\n")
	}

	if start > 0 || end < len(m.visible) {
		b.WriteString(styles.MutedStyle.Render(
			fmt.Sprintf("Showing %d-%d of %d series", start+1, end, len(m.visible)),
		))
	}

	return b.String()
}
