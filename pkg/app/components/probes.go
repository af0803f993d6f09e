package components

import (
	"fmt"
	"strings"

	"github.com/kerbaras/opdsreader/pkg/app/styles"
	"github.com/kerbaras/opdsreader/pkg/services"
)

// ProbeTracker counts the page probes of the open chapter.
type ProbeTracker struct {
	total  int
	seen   map[int]bool
	failed map[int]error
	width  int
}

func NewProbeTracker(total, width int) *ProbeTracker {
	return &ProbeTracker{
		total:  total,
		seen:   make(map[int]bool),
		failed: make(map[int]error),
		width:  width,
	}
}

func (p *ProbeTracker) SetWidth(width int) { p.width = width }

// Update records a result. A page reported twice counts once.
func (p *ProbeTracker) Update(result services.PageResult) {
	if result.Index < 0 || result.Index >= p.total {
		return
	}
	p.seen[result.Index] = true
	if result.Err != nil {
		p.failed[result.Index] = result.Err
	} else {
		delete(p.failed, result.Index)
	}
}

func (p *ProbeTracker) Done() int   { return len(p.seen) }
func (p *ProbeTracker) Failed() int { return len(p.failed) }

func (p *ProbeTracker) Err(index int) error { return p.failed[index] }

func (p *ProbeTracker) HasActive() bool {
	return len(p.seen) < p.total
}

func (p *ProbeTracker) View() string {
	if p.total == 0 {
		return ""
	}

	var b strings.Builder
	percentage := float64(p.Done()) / float64(p.total) * 100
	status := "loading"
	if !p.HasActive() {
		status = "complete"
	}
	statusText := fmt.Sprintf("%s (%d/%d pages - %.0f%%)", status, p.Done(), p.total, percentage)

	if p.HasActive() {
		b.WriteString(renderProgressBar(p.Done(), p.total, p.width-4))
		b.WriteString("\n")
	}
	b.WriteString(styles.StatusStyle(status).Render(statusText))

	if n := p.Failed(); n > 0 {
		b.WriteString("  ")
		b.WriteString(styles.StatusError.Render(fmt.Sprintf("%d failed", n)))
	}

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return styles.ProgressBarStyle.Render(bar)
}

// SimpleProgress renders a simple progress bar
func SimpleProgress(current, total, width int) string {
	return renderProgressBar(current, total, width)
}
