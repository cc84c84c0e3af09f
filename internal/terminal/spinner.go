package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on a terminal. A disabled spinner does
// nothing, so callers need not check for a terminal themselves.
type Spinner struct {
	mu       sync.Mutex
	w        io.Writer
	message  string
	enabled  bool
	interval time.Duration
	running  bool
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewSpinner creates a spinner writing to w. It only animates when w is a
// terminal.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:        w,
		message:  message,
		enabled:  IsTerminal(w),
		interval: 80 * time.Millisecond,
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || !s.enabled {
		return
	}
	s.running = true
	s.done = make(chan struct{})

	s.wg.Add(1)
	go s.loop(s.done)
}

func (s *Spinner) loop(done <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.mu.Lock()
		fmt.Fprintf(s.w, "\r%s%s %s%s", Cyan, spinnerFrames[i%len(spinnerFrames)], s.message, Reset)
		s.mu.Unlock()

		select {
		case <-done:
			return
		case <-ticker.C:
		}
	}
}

// Update changes the spinner message.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Stop stops the spinner, waits for the animation to exit and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	width := len(s.message) + 4
	s.mu.Unlock()

	s.wg.Wait()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", width))
}
