package components

import (
	"strings"
	"testing"

	"github.com/kerbaras/opdsreader/pkg/data"
)

func threeSeries() []data.Series {
	return []data.Series{
		{ID: "1", Title: "Blue Period"},
		{ID: "2", Title: "Dungeon Meshi"},
		{ID: "3", Title: "Blue Giant"},
	}
}

func TestNewSeriesList(t *testing.T) {
	list := NewSeriesList()

	if list == nil {
		t.Fatal("Expected series list to be created")
	}

	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex 0, got %d", list.SelectedIndex)
	}

	if list.Len() != 0 {
		t.Errorf("Expected 0 items, got %d", list.Len())
	}
}

func TestSetItemsClampsSelection(t *testing.T) {
	list := NewSeriesList()
	list.SetItems(threeSeries())
	list.SelectedIndex = 2

	list.SetItems([]data.Series{{ID: "1", Title: "Blue Period"}})

	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex to be reset to 0, got %d", list.SelectedIndex)
	}
}

func TestNextPrevWrap(t *testing.T) {
	list := NewSeriesList()
	list.SetItems(threeSeries())

	list.Next()
	list.Next()
	if list.SelectedIndex != 2 {
		t.Errorf("Expected SelectedIndex 2, got %d", list.SelectedIndex)
	}

	list.Next()
	if list.SelectedIndex != 0 {
		t.Errorf("Expected SelectedIndex to wrap to 0, got %d", list.SelectedIndex)
	}

	list.Prev()
	if list.SelectedIndex != 2 {
		t.Errorf("Expected SelectedIndex to wrap to 2, got %d", list.SelectedIndex)
	}
}

func TestNextPrevEmptyList(t *testing.T) {
	list := NewSeriesList()

	// Should not panic with empty list
	list.Next()
	list.Prev()

	if list.Selected() != nil {
		t.Error("Expected nil for empty list")
	}
}

func TestFilter(t *testing.T) {
	list := NewSeriesList()
	list.SetItems(threeSeries())
	list.Next()
	list.Next()

	list.SetFilter("  blue ")

	if list.Len() != 2 {
		t.Fatalf("Expected 2 matches, got %d", list.Len())
	}
	if list.SelectedIndex != 1 {
		t.Errorf("Expected selection clamped to 1, got %d", list.SelectedIndex)
	}
	if got := list.Selected().ID; got != "3" {
		t.Errorf("Expected series 3 selected, got %s", got)
	}

	list.SetFilter("")
	if list.Len() != 3 {
		t.Errorf("Expected filter to clear, got %d items", list.Len())
	}
}

func TestViewEmptyList(t *testing.T) {
	list := NewSeriesList()

	if !strings.Contains(list.View(), "No series in library") {
		t.Error("Expected 'No series in library' message")
	}

	list.SetItems(threeSeries())
	list.SetFilter("zzz")
	if !strings.Contains(list.View(), `No series matching "zzz"`) {
		t.Error("Expected no-match message")
	}
}

func TestViewWithItems(t *testing.T) {
	list := NewSeriesList()
	list.Height = 40
	list.SetItems(threeSeries())

	view := list.View()

	for _, title := range []string{"Blue Period", "Dungeon Meshi", "Blue Giant"} {
		if !strings.Contains(view, title) {
			t.Errorf("Expected %q in view", title)
		}
	}
}

func TestViewWindowsLongLists(t *testing.T) {
	list := NewSeriesList()
	list.Height = cardHeight * 2

	items := make([]data.Series, 10)
	for i := range items {
		items[i] = data.Series{ID: string(rune('a' + i)), Title: "Series " + string(rune('A'+i))}
	}
	list.SetItems(items)
	for i := 0; i < 6; i++ {
		list.Next()
	}

	view := list.View()
	if !strings.Contains(view, "Series G") {
		t.Error("Expected the selected series to be visible")
	}
	if strings.Contains(view, "Series A") {
		t.Error("Expected the first series to scroll out of view")
	}
	if !strings.Contains(view, "of 10 series") {
		t.Error("Expected a position hint")
	}
}
