package pages

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripjournal/tripjournal/internal/cli/client"
	"github.com/tripjournal/tripjournal/internal/cli/events"
	"github.com/tripjournal/tripjournal/internal/cli/nav"
)

// AvailabilityDelay is the quiet period before an availability lookup is sent
const AvailabilityDelay = 300 * time.Millisecond

// availability remembers debounced "is this value taken" lookups
type availability struct {
	mu       sync.Mutex
	taken    map[string]bool
	debounce *events.Debouncer
	lookup   func(string) (*client.Response[bool], error)
	log      zerolog.Logger
}

func newAvailability(lookup func(string) (*client.Response[bool], error), log zerolog.Logger) *availability {
	return &availability{
		taken:    make(map[string]bool),
		debounce: events.NewDebouncer(AvailabilityDelay),
		lookup:   lookup,
		log:      log,
	}
}

// observe schedules a lookup for value once typing pauses
func (a *availability) observe(value string) {
	a.debounce.Call(func() {
		res, err := a.lookup(value)
		if err != nil {
			a.log.Debug().Err(err).Str("value", value).Msg("Availability lookup failed")
			return
		}
		a.mu.Lock()
		a.taken[value] = res.Data
		a.mu.Unlock()
	})
}

// known returns a remembered answer
func (a *availability) known(value string) (taken, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	taken, ok = a.taken[value]
	return taken, ok
}

// rule validates value locally and against remembered lookups, scheduling a new one
func (a *availability) rule(local func(string) error, takenMsg string) func(string) error {
	return func(value string) error {
		if err := local(value); err != nil {
			return err
		}
		if taken, ok := a.known(value); ok {
			if taken {
				return errors.New(takenMsg)
			}
			return nil
		}
		a.observe(value)
		return nil
	}
}

// confirm performs a final, synchronous lookup
func (a *availability) confirm(value string) (bool, error) {
	a.debounce.Stop()
	res, err := a.lookup(value)
	if err != nil {
		return false, err
	}
	return res.Data, nil
}

type signupPage struct {
	env *Env
}

func newSignupPage(env *Env) Page {
	return &signupPage{env: env}
}

func (p *signupPage) Init(ctx context.Context) error {
	usernames := newAvailability(p.env.API.CheckUsername, p.env.Log)
	emails := newAvailability(p.env.API.CheckEmail, p.env.Log)
	defer usernames.debounce.Stop()
	defer emails.debounce.Stop()

	username, err := p.env.Prompt.Ask(Field{
		Name:     "username",
		Label:    "Username",
		Validate: usernames.rule(fieldRule("username", "min=3,max=15,username"), "username is already taken"),
	})
	if err != nil {
		return err
	}
	email, err := p.env.Prompt.Ask(Field{
		Name:     "email",
		Label:    "Email",
		Validate: emails.rule(fieldRule("email", "email"), "email is already registered"),
	})
	if err != nil {
		return err
	}
	password, err := p.env.Prompt.Ask(Field{
		Name:     "password",
		Label:    "Password",
		Secret:   true,
		Validate: fieldRule("password", "min=6,max=20"),
	})
	if err != nil {
		return err
	}
	confirm, err := p.env.Prompt.Ask(Field{
		Name:   "confirmPassword",
		Label:  "Confirm password",
		Secret: true,
		Validate: func(s string) error {
			if s != password {
				return errors.New("passwords do not match")
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	if confirm != password {
		showError(p.env.Out, errors.New("passwords do not match"))
		return nil
	}

	req := client.SignupRequest{Username: username, Email: email, Password: password}
	if err := Validator().Struct(req); err != nil {
		showError(p.env.Out, validationMessage(err))
		return nil
	}

	if taken, err := usernames.confirm(username); err != nil {
		showError(p.env.Out, err)
		return nil
	} else if taken {
		showError(p.env.Out, fmt.Errorf("username %s is already taken", username))
		return nil
	}
	if taken, err := emails.confirm(email); err != nil {
		showError(p.env.Out, err)
		return nil
	} else if taken {
		showError(p.env.Out, fmt.Errorf("email %s is already registered", email))
		return nil
	}

	res, err := p.env.API.Signup(req)
	if err != nil {
		showError(p.env.Out, err)
		return nil
	}

	showSuccess(p.env.Out, res.Message)
	p.env.Nav.Navigate(nav.LoginPath)
	return nil
}
