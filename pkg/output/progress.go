package output

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

const progressTemplate = `{{string . "label"}} {{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{etime . }}`

// Progress tracks per-file work in a long pass
type Progress interface {
	// Increment marks one item done
	Increment()
	// Finish stops rendering
	Finish()
}

// NewProgress returns a progress bar on w labelled label, or a no-op
// when disabled or when w is not a terminal
func NewProgress(w io.Writer, total int, label string, enabled bool) Progress {
	if !enabled || total <= 0 || !IsTerminal(w) {
		return noProgress{}
	}

	bar := pb.ProgressBarTemplate(progressTemplate).New(total)
	bar.SetWriter(w)
	bar.Set("label", label)
	bar.Start()
	return &barProgress{bar: bar}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

type barProgress struct {
	bar *pb.ProgressBar
}

func (p *barProgress) Increment() {
	p.bar.Increment()
}

func (p *barProgress) Finish() {
	p.bar.Finish()
}

type noProgress struct{}

func (noProgress) Increment() {}

func (noProgress) Finish() {}
