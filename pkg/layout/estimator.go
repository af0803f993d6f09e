// Package layout estimates how tall each page of a vertical reading stream is
// once scaled to the viewport width.
package layout

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrInvalidDimensions = errors.New("dimensions must be positive and finite")

// Estimate scales an image of natural size nw x nh to fit viewport width vw and
// returns the resulting height.
func Estimate(nw, nh, vw float64) (float64, error) {
	if !valid(nw) || !valid(nh) || !valid(vw) {
		return 0, fmt.Errorf("%w: natural %gx%g, viewport %g", ErrInvalidDimensions, nw, nh, vw)
	}
	s := nw / vw
	h := nh / s
	if !valid(h) {
		return 0, fmt.Errorf("%w: height %g", ErrInvalidDimensions, h)
	}
	return h, nil
}

func valid(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

type Page struct {
	Index          int
	NaturalWidth   float64
	NaturalHeight  float64
	RenderedHeight float64
}

// Table keeps the layout of every page observed so far. It is not safe for
// concurrent use; the reader mutates it from a single goroutine.
type Table struct {
	viewportWidth float64
	pages         map[int]Page
}

func NewTable(viewportWidth float64) *Table {
	return &Table{viewportWidth: viewportWidth, pages: make(map[int]Page)}
}

func (t *Table) ViewportWidth() float64 { return t.viewportWidth }

// Observe records the natural size of page index and returns its rendered
// height at viewport width vw. A width different from the table's rescales
// every known entry first, so the table never mixes widths. A failed
// observation leaves the table as it was.
func (t *Table) Observe(index int, nw, nh, vw float64) (float64, error) {
	h, err := Estimate(nw, nh, vw)
	if err != nil {
		return 0, fmt.Errorf("page %d: %w", index, err)
	}
	if vw != t.viewportWidth {
		if err := t.Resize(vw); err != nil {
			return 0, err
		}
	}
	t.pages[index] = Page{Index: index, NaturalWidth: nw, NaturalHeight: nh, RenderedHeight: h}
	return h, nil
}

// Height reports the rendered height of index and whether it is known.
func (t *Table) Height(index int) (float64, bool) {
	p, ok := t.pages[index]
	return p.RenderedHeight, ok
}

func (t *Table) HeightOr(index int, fallback float64) float64 {
	if h, ok := t.Height(index); ok {
		return h
	}
	return fallback
}

func (t *Table) Page(index int) (Page, bool) {
	p, ok := t.pages[index]
	return p, ok
}

func (t *Table) Len() int { return len(t.pages) }

// Resize switches to a new viewport width and recomputes every known entry
// from its natural size. An invalid width is rejected and nothing changes.
func (t *Table) Resize(viewportWidth float64) error {
	if !valid(viewportWidth) {
		return fmt.Errorf("%w: viewport %g", ErrInvalidDimensions, viewportWidth)
	}

	next := make(map[int]Page, len(t.pages))
	for i, p := range t.pages {
		h, err := Estimate(p.NaturalWidth, p.NaturalHeight, viewportWidth)
		if err != nil {
			return fmt.Errorf("page %d: %w", i, err)
		}
		p.RenderedHeight = h
		next[i] = p
	}

	t.viewportWidth = viewportWidth
	t.pages = next
	return nil
}

// Pages returns the known entries ordered by index.
func (t *Table) Pages() []Page {
	out := make([]Page, 0, len(t.pages))
	for _, p := range t.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
