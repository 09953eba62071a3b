package pages

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/tripjournal/tripjournal/internal/cli/client"
	"github.com/tripjournal/tripjournal/internal/cli/events"
	"github.com/tripjournal/tripjournal/internal/cli/guard"
	"github.com/tripjournal/tripjournal/internal/cli/nav"
	"github.com/tripjournal/tripjournal/internal/cli/routes"
	"github.com/tripjournal/tripjournal/internal/cli/session"
)

// MaxHops bounds how many navigations one Run follows
const MaxHops = 5

// ErrTooManyNavigations is returned when pages keep redirecting
var ErrTooManyNavigations = errors.New("too many navigations")

// Deps are the collaborators shared by every load
type Deps struct {
	Routes   *routes.Table
	Registry Registry
	Session  *session.Service
	API      *client.Client
	Bus      *events.Bus
	Header   *session.TerminalHeader
	Location *nav.Location
	Screen   guard.Screen
	Prompt   Prompter
	Out      io.Writer
	Log      zerolog.Logger
	// GuardOptions are applied to the guard of every load
	GuardOptions []guard.Option
}

// Outcome describes what a load did
type Outcome struct {
	Entry routes.Entry
	State guard.State
	// Initialized is true when a page was built and its Init ran to completion
	Initialized bool
}

// Bootstrapper performs page loads
type Bootstrapper struct {
	deps Deps
	log  zerolog.Logger
}

// NewBootstrapper creates a bootstrapper. Missing routes and registry fall back to the defaults.
func NewBootstrapper(deps Deps) *Bootstrapper {
	if deps.Routes == nil {
		deps.Routes = routes.Default()
	}
	if deps.Registry == nil {
		deps.Registry = DefaultRegistry()
	}
	if deps.Bus == nil {
		deps.Bus = events.NewBus()
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Screen == nil {
		deps.Screen = guard.NewTerminalScreen(deps.Out)
	}
	if deps.Prompt == nil {
		deps.Prompt = FieldPrompter{}
	}
	return &Bootstrapper{
		deps: deps,
		log:  deps.Log.With().Str("component", "bootstrap").Logger(),
	}
}

// Load performs one page load for location. Only storage failures while reading the
// session are returned; a missing module or a failing page is logged and swallowed.
func (b *Bootstrapper) Load(ctx context.Context, location string) (Outcome, error) {
	path, query := nav.Split(location)
	entry := b.deps.Routes.Resolve(path)
	outcome := Outcome{Entry: entry, State: guard.Pending}

	log := b.log.With().Str("path", path).Str("module", entry.Module).Logger()

	if err := b.refreshHeader(); err != nil {
		return outcome, err
	}

	scope := b.deps.Bus.Scope()
	defer scope.Dispose()
	scope.Subscribe(events.SessionChanged, func(any) {
		if err := b.refreshHeader(); err != nil {
			log.Error().Err(err).Msg("Failed to refresh header")
		}
	})

	authenticated, err := b.deps.Session.IsAuthenticated()
	if err != nil {
		return outcome, fmt.Errorf("failed to read session: %w", err)
	}

	g := guard.New(b.deps.Screen, b.deps.Location, b.deps.Log, b.deps.GuardOptions...)
	outcome.State = g.Check(entry.RequiresAuth, authenticated)
	if outcome.State == guard.Blocked {
		log.Debug().Msg("Page blocked by guard")
		return outcome, nil
	}

	factory, ok := b.deps.Registry[entry.Module]
	if !ok {
		log.Error().Msg("Page module not registered")
		return outcome, nil
	}

	env := &Env{
		Entry:   entry,
		Query:   query,
		API:     b.deps.API,
		Session: b.deps.Session,
		Nav:     b.deps.Location,
		Events:  scope,
		Prompt:  b.deps.Prompt,
		Out:     b.deps.Out,
		Log:     b.deps.Log.With().Str("page", entry.Module).Logger(),
	}

	if err := initPage(ctx, factory, env); err != nil {
		log.Error().Err(err).Msg("Page failed to load")
		return outcome, nil
	}

	outcome.Initialized = true
	return outcome, nil
}

// Run loads the current location and then every navigation requested while loading
func (b *Bootstrapper) Run(ctx context.Context) error {
	target := b.deps.Location.Current()
	for hops := 0; ; hops++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if hops > MaxHops {
			return fmt.Errorf("%w: stopped at %s", ErrTooManyNavigations, target)
		}

		if _, err := b.Load(ctx, target); err != nil {
			return err
		}

		next, ok := b.deps.Location.Next()
		if !ok {
			return nil
		}
		b.log.Debug().Str("from", target).Str("to", next).Msg("Following navigation")
		b.deps.Bus.Publish(events.Navigated, next)
		target = next
	}
}

func (b *Bootstrapper) refreshHeader() error {
	if b.deps.Header == nil {
		return nil
	}
	if err := b.deps.Session.UpdateHeaderUI(b.deps.Header); err != nil {
		return err
	}
	_, err := b.deps.Header.WriteTo(b.deps.Out)
	return err
}

// initPage builds and initializes the page, turning a panic into an error
func initPage(ctx context.Context, factory Factory, env *Env) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page panicked: %v", r)
		}
	}()

	page := factory(env)
	if page == nil {
		return errors.New("page factory returned nil")
	}
	return page.Init(ctx)
}
