package session

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// TerminalHeader is a HeaderView rendered as a single line of text
type TerminalHeader struct {
	mu      sync.Mutex
	title   string
	visible map[string]bool
	text    map[string]string
}

// NewTerminalHeader creates a header with both regions hidden
func NewTerminalHeader(title string) *TerminalHeader {
	return &TerminalHeader{
		title:   title,
		visible: make(map[string]bool),
		text:    make(map[string]string),
	}
}

func (h *TerminalHeader) SetVisible(region string, visible bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visible[region] = visible
}

func (h *TerminalHeader) SetText(slot, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.text[slot] = text
}

// Visible reports whether a region is shown
func (h *TerminalHeader) Visible(region string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visible[region]
}

// Text returns the content of a slot
func (h *TerminalHeader) Text(slot string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text[slot]
}

// Render returns the header line
func (h *TerminalHeader) Render() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var b strings.Builder
	b.WriteString(h.title)
	if h.visible[RegionUserMenu] {
		fmt.Fprintf(&b, "  |  %s ▾ (logout)", h.text[SlotUsername])
	}
	if h.visible[RegionLoginLink] {
		b.WriteString("  |  login")
	}
	return b.String()
}

// WriteTo writes the header line followed by a rule
func (h *TerminalHeader) WriteTo(w io.Writer) (int64, error) {
	line := h.Render()
	n, err := fmt.Fprintf(w, "%s\n%s\n", line, strings.Repeat("─", len([]rune(line))))
	return int64(n), err
}
