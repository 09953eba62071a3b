// Package guard decides, once per page load, whether a page may render.
//
// The guard is a UX gate: it spares the user a page that would only fail, it does not
// protect anything. The backend remains the authority on every request.
package guard

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tripjournal/tripjournal/internal/cli/nav"
)

// State of the guard for the current page load
type State int

const (
	Pending State = iota
	Allowed
	Blocked
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Allowed:
		return "allowed"
	case Blocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// NoticeMessage is shown before the redirect to the login page
const NoticeMessage = "This page requires login. Redirecting to the login page."

// Default delays of the blocked flow
const (
	DefaultNoticeDelay   = 500 * time.Millisecond
	DefaultRedirectDelay = 1500 * time.Millisecond
)

// Screen renders the blocking overlay and the notice
type Screen interface {
	ShowOverlay()
	ShowNotice(message string)
	HideOverlay()
}

// Guard is single-use: one instance per page load
type Guard struct {
	screen        Screen
	navigator     nav.Navigator
	noticeDelay   time.Duration
	redirectDelay time.Duration
	sleep         func(time.Duration)
	log           zerolog.Logger
	state         State
}

// Option configures a Guard
type Option func(*Guard)

// WithDelays overrides the notice and redirect delays
func WithDelays(notice, redirect time.Duration) Option {
	return func(g *Guard) {
		g.noticeDelay = notice
		g.redirectDelay = redirect
	}
}

// WithSleeper replaces time.Sleep, for tests
func WithSleeper(sleep func(time.Duration)) Option {
	return func(g *Guard) {
		g.sleep = sleep
	}
}

// New creates a guard in the Pending state
func New(screen Screen, navigator nav.Navigator, log zerolog.Logger, opts ...Option) *Guard {
	g := &Guard{
		screen:        screen,
		navigator:     navigator,
		noticeDelay:   DefaultNoticeDelay,
		redirectDelay: DefaultRedirectDelay,
		sleep:         time.Sleep,
		log:           log.With().Str("component", "guard").Logger(),
		state:         Pending,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State returns the current state
func (g *Guard) State() State {
	return g.state
}

// Check decides whether the page may proceed. The first call is final: later calls
// return the same state without re-evaluating. A blocked decision runs the whole
// overlay, notice and redirect sequence before returning.
func (g *Guard) Check(requiresAuth, authenticated bool) State {
	if g.state != Pending {
		return g.state
	}

	if !requiresAuth || authenticated {
		g.state = Allowed
		return g.state
	}

	g.state = Blocked
	g.log.Info().Msg("Protected page requested without a session, redirecting to login")

	g.screen.ShowOverlay()
	g.sleep(g.noticeDelay)
	g.screen.ShowNotice(NoticeMessage)
	g.sleep(g.redirectDelay)
	g.screen.HideOverlay()
	g.navigator.Navigate(nav.LoginPath)

	return g.state
}
