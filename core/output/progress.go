package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
)

// Progress displays the advance of a long fetch.
type Progress interface {
	Update(done, total int)
	Done()
}

type nopProgress struct{}

func (nopProgress) Update(int, int) {}
func (nopProgress) Done()           {}

// barProgress redraws a titled progress bar on a single line of w.
type barProgress struct {
	mu    sync.Mutex
	w     io.Writer
	title string
	bar   progress.Model
	drawn bool
}

func newBarProgress(w io.Writer, title string) *barProgress {
	return &barProgress{
		w:     w,
		title: title,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// Update draws done out of total. An unknown total shows the count only.
func (p *barProgress) Update(done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if total > 0 {
		ratio := float64(done) / float64(total)
		if ratio > 1 {
			ratio = 1
		}
		fmt.Fprintf(p.w, "\r%s %s %s", p.title, p.bar.ViewAs(ratio), StyleDim.Render(fmt.Sprintf("%d/%d", done, total)))
	} else {
		fmt.Fprintf(p.w, "\r%s %s", p.title, StyleDim.Render(fmt.Sprintf("%d", done)))
	}
	p.drawn = true
}

func (p *barProgress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		fmt.Fprintln(p.w)
		p.drawn = false
	}
}
