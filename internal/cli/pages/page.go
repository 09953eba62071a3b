// Package pages boots exactly one page module per load.
//
// A load resolves the location against the route table, lets the route guard decide
// whether the page may run, and then builds the page from the static registry and runs
// its Init. Failures inside a page never escape the load: they are logged and the
// shell stays usable.
package pages

import (
	"context"
	"io"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/tripjournal/tripjournal/internal/cli/client"
	"github.com/tripjournal/tripjournal/internal/cli/events"
	"github.com/tripjournal/tripjournal/internal/cli/nav"
	"github.com/tripjournal/tripjournal/internal/cli/routes"
	"github.com/tripjournal/tripjournal/internal/cli/session"
)

// Page is a page module instance. Init runs once per load.
type Page interface {
	Init(ctx context.Context) error
}

// Factory builds a page for the current load
type Factory func(env *Env) Page

// Env is everything a page may use during its load
type Env struct {
	Entry   routes.Entry
	Query   url.Values
	API     *client.Client
	Session *session.Service
	Nav     nav.Navigator
	// Events is released when the load ends
	Events *events.Scope
	Prompt Prompter
	Out    io.Writer
	Log    zerolog.Logger
}

// Registry maps module names to factories
type Registry map[string]Factory

// DefaultRegistry returns the application's page modules
func DefaultRegistry() Registry {
	return Registry{
		"home":              newHomePage,
		"login":             newLoginPage,
		"signup":            newSignupPage,
		"dashboard":         newDashboardPage,
		"trip-list":         newTripListPage,
		"trip-form":         newTripFormPage,
		"trip-detail":       newTripDetailPage,
		"travel-log-list":   newTravelLogListPage,
		"travel-log-form":   newTravelLogFormPage,
		"travel-log-detail": newTravelLogDetailPage,

		routes.NotFoundModule: newNotFoundPage,
	}
}
