package report

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/mattn/go-isatty"
)

// Progress draws a single-line bar on a terminal. A nil *Progress is a valid
// no-op, which is what NewProgress returns for non-terminal outputs.
type Progress struct {
	mu    sync.Mutex
	w     io.Writer
	bar   progress.Model
	drawn bool
}

func NewProgress(f *os.File) *Progress {
	if f == nil || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return nil
	}
	return newProgress(f)
}

func newProgress(w io.Writer) *Progress {
	return &Progress{
		w:   w,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// Update matches ports.ProgressFunc.
func (p *Progress) Update(done, total int) {
	if p == nil || total <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "\r%s%s %d/%d", indent, p.bar.ViewAs(float64(done)/float64(total)), done, total)
	p.drawn = true
}

// Finish ends the bar's line.
func (p *Progress) Finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drawn {
		fmt.Fprintln(p.w)
		p.drawn = false
	}
}
