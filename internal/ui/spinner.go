package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows an animated indicator while a query runs. Off a
// terminal both Start and Stop are no-ops so piped output stays clean.
type Spinner struct {
	message string
	out     io.Writer
	tty     bool
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewSpinner creates a spinner writing to stdout.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		out:     os.Stdout,
		tty:     isatty.IsTerminal(os.Stdout.Fd()),
		done:    make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	if !s.tty || s.running {
		return
	}
	s.running = true
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		frame := 0
		for {
			select {
			case <-s.done:
				fmt.Fprint(s.out, "\r\033[K")
				return
			case <-ticker.C:
				fmt.Fprintf(s.out, "\r%s %s", Bold.Render(spinnerFrames[frame%len(spinnerFrames)]), s.message)
				frame++
			}
		}
	}()
}

// Stop ends the animation and clears the spinner line.
func (s *Spinner) Stop() {
	if !s.running {
		return
	}
	s.running = false
	close(s.done)
	s.wg.Wait()
}

// Progress shows running counts for work that probes the database one
// entity at a time. Like Spinner it stays silent off a terminal.
type Progress struct {
	message string
	total   int
	out     io.Writer
	tty     bool
}

// NewProgress creates a progress indicator writing to stdout.
func NewProgress(message string, total int) *Progress {
	return &Progress{
		message: message,
		total:   total,
		out:     os.Stdout,
		tty:     isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// Update redraws the indicator at current out of total.
func (p *Progress) Update(current int) {
	if !p.tty {
		return
	}
	fmt.Fprintf(p.out, "\r%s %s", p.message, Muted.Render(fmt.Sprintf("(%d/%d)", current, p.total)))
}

// Done clears the indicator line.
func (p *Progress) Done() {
	if !p.tty {
		return
	}
	fmt.Fprint(p.out, "\r\033[K")
}
