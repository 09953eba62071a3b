package guard

import (
	"fmt"
	"io"
)

// TerminalScreen renders the overlay and notice as terminal lines
type TerminalScreen struct {
	out     io.Writer
	overlay bool
}

// NewTerminalScreen creates a screen writing to out
func NewTerminalScreen(out io.Writer) *TerminalScreen {
	return &TerminalScreen{out: out}
}

func (s *TerminalScreen) ShowOverlay() {
	s.overlay = true
	fmt.Fprintln(s.out, "░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░")
}

func (s *TerminalScreen) ShowNotice(message string) {
	fmt.Fprintf(s.out, "⚠ %s\n", message)
}

func (s *TerminalScreen) HideOverlay() {
	if !s.overlay {
		return
	}
	s.overlay = false
	fmt.Fprintln(s.out, "░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░░")
}

// OverlayVisible reports whether the overlay is currently shown
func (s *TerminalScreen) OverlayVisible() bool {
	return s.overlay
}
