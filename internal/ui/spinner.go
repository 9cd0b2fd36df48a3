package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Spinner displays an animated progress line on stderr while a slow
// operation runs (loading a large scene, a long search). Output is
// suppressed entirely when stderr is not a terminal so piped runs stay
// clean.
type Spinner struct {
	message string
	note    string
	frames  []string
	done    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	current int
	active  bool
}

// Default spinner frames (dots style)
var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message: message,
		frames:  defaultFrames,
		done:    make(chan struct{}),
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return
	}
	s.active = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				// Clear the spinner line
				fmt.Fprint(os.Stderr, "\r\033[K")
				return
			case <-ticker.C:
				s.mu.Lock()
				frame := s.frames[s.current%len(s.frames)]
				s.current++
				note := s.note
				s.mu.Unlock()
				fmt.Fprintf(os.Stderr, "\r%s %s %s", Bold.Render(frame), s.message, Muted.Render(note))
			}
		}
	}()
}

// SetNote updates the muted suffix shown after the message, e.g. a
// visited-node count fed by the engine's progress callback.
func (s *Spinner) SetNote(note string) {
	s.mu.Lock()
	s.note = note
	s.mu.Unlock()
}

// Stop stops the spinner and clears its line.
func (s *Spinner) Stop() {
	if !s.active {
		return
	}
	s.active = false
	close(s.done)
	s.wg.Wait()
}

// StopWithMessage stops the spinner and prints a final message to stderr.
func (s *Spinner) StopWithMessage(message string) {
	s.Stop()
	fmt.Fprintln(os.Stderr, message)
}
