package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/tripjournal/tripjournal/internal/cli/auth"
	"github.com/tripjournal/tripjournal/internal/cli/client"
	"github.com/tripjournal/tripjournal/internal/cli/events"
	"github.com/tripjournal/tripjournal/internal/cli/guard"
	"github.com/tripjournal/tripjournal/internal/cli/nav"
	"github.com/tripjournal/tripjournal/internal/cli/pages"
	"github.com/tripjournal/tripjournal/internal/cli/session"
	"github.com/tripjournal/tripjournal/internal/config"
	"github.com/tripjournal/tripjournal/internal/logger"
)

// HeaderTitle is the brand shown at the left of the header line
const HeaderTitle = "✈ Trip Journal"

// shell is one run of the client: storage, session, pipeline and bootstrapper
// sharing a single location
type shell struct {
	location *nav.Location
	session  *session.Service
	header   *session.TerminalHeader
	api      *client.Client
	boot     *pages.Bootstrapper
	out      io.Writer
}

// shellOptions configures newShell
type shellOptions struct {
	start  string
	prompt pages.Prompter
}

func newShell(cfg *config.Config, out io.Writer, opts shellOptions) (*shell, error) {
	log := logger.Logger

	storage, err := auth.NewStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	location := nav.NewLocation(opts.start)
	bus := events.NewBus()
	store := auth.NewStore(storage, location, log)
	svc := session.NewService(store, bus)
	api := client.New(cfg.API.BaseURL, svc)
	header := session.NewTerminalHeader(HeaderTitle)

	prompt := opts.prompt
	if prompt == nil {
		prompt = pages.TerminalPrompter{}
	}

	boot := pages.NewBootstrapper(pages.Deps{
		Session:  svc,
		API:      api,
		Bus:      bus,
		Header:   header,
		Location: location,
		Screen:   guard.NewTerminalScreen(out),
		Prompt:   prompt,
		Out:      out,
		Log:      log,
		GuardOptions: []guard.Option{
			guard.WithDelays(cfg.Guard.NoticeDelay, cfg.Guard.RedirectDelay),
		},
	})

	return &shell{
		location: location,
		session:  svc,
		header:   header,
		api:      api,
		boot:     boot,
		out:      out,
	}, nil
}

// open loads the start location, then follows navigations when asked to
func (s *shell) open(ctx context.Context, follow bool) error {
	if follow {
		return s.boot.Run(ctx)
	}
	_, err := s.boot.Load(ctx, s.location.Current())
	if err != nil {
		return err
	}
	if next, ok := s.location.Next(); ok {
		fmt.Fprintf(s.out, "\n→ %s\n", next)
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
