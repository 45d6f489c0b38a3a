package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProgressBar reports how many of a known number of items are done. It is
// safe for concurrent use.
type ProgressBar struct {
	w      io.Writer
	title  string
	total  int
	done   int
	failed int
	width  int
	mu     sync.Mutex
}

// NewProgressBar creates a progress bar over total items.
func NewProgressBar(w io.Writer, title string, total int) *ProgressBar {
	return &ProgressBar{
		w:     w,
		title: title,
		total: total,
		width: 30,
	}
}

// Increment marks one item done. A failed item is counted separately.
func (p *ProgressBar) Increment(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if failed {
		p.failed++
	}
	p.render()
}

// Finish ends the progress line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.render()
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) render() {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %d", p.title, p.done)
		return
	}

	percent := float64(p.done) / float64(p.total)
	if percent > 1 {
		percent = 1
	}
	filled := int(float64(p.width) * percent)

	fmt.Fprintf(p.w, "\r%s [%s%s] %d/%d",
		p.title,
		strings.Repeat("█", filled),
		strings.Repeat("░", p.width-filled),
		p.done,
		p.total,
	)
	if p.failed > 0 {
		fmt.Fprintf(p.w, " (%d failed)", p.failed)
	}
}

// FormatBytes formats a byte count for humans.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
