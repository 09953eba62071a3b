// Package nav holds the shell's notion of the current location.
//
// A navigation never renders anything by itself: it records the target so the
// shell can perform a fresh page load for it once the current load finishes.
package nav

import (
	"net/url"
	"sync"
)

// Root is the application root path
const Root = "/"

// LoginPath is where blocked pages redirect to
const LoginPath = "/login"

// Navigator changes the current location
type Navigator interface {
	Navigate(target string)
}

// Location tracks the current path and any navigation requested during a page load
type Location struct {
	mu      sync.Mutex
	current string
	pending string
	history []string
}

// NewLocation creates a location positioned at start
func NewLocation(start string) *Location {
	if start == "" {
		start = Root
	}
	return &Location{current: start}
}

// Navigate records target as the next page to load. The last call wins.
func (l *Location) Navigate(target string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = target
}

// Current returns the location currently loaded
func (l *Location) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Next consumes the pending navigation, making it the current location.
// It reports false when nothing was requested.
func (l *Location) Next() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pending == "" {
		return "", false
	}
	l.history = append(l.history, l.current)
	l.current, l.pending = l.pending, ""
	return l.current, true
}

// History returns previously loaded locations, oldest first
func (l *Location) History() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.history...)
}

// Split separates a location into its path and query values.
// Malformed queries yield empty values rather than an error.
func Split(location string) (string, url.Values) {
	u, err := url.Parse(location)
	if err != nil {
		return location, url.Values{}
	}
	path := u.Path
	if path == "" {
		path = Root
	}
	return path, u.Query()
}
