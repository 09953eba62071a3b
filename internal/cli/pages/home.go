package pages

import (
	"context"
	"fmt"
)

type homePage struct {
	env *Env
}

func newHomePage(env *Env) Page {
	return &homePage{env: env}
}

func (p *homePage) Init(ctx context.Context) error {
	user, ok, err := p.env.Session.CurrentUser()
	if err != nil {
		return err
	}

	out := p.env.Out
	if ok {
		fmt.Fprintf(out, "Welcome back, %s!\n", user.Username())
		fmt.Fprintln(out, "Keep your trips organised and your memories safe.")
		fmt.Fprintln(out, "\nGo to your dashboard: tripjournal open /dashboard")
		return nil
	}

	fmt.Fprintln(out, "Welcome to Trip Journal!")
	fmt.Fprintln(out, "Plan trips, write travel logs and keep your photos in one place.")
	fmt.Fprintln(out, "\nSign in: tripjournal login")
	fmt.Fprintln(out, "New here? tripjournal open /signup")
	return nil
}

type notFoundPage struct {
	env *Env
}

func newNotFoundPage(env *Env) Page {
	return &notFoundPage{env: env}
}

func (p *notFoundPage) Init(ctx context.Context) error {
	fmt.Fprintf(p.env.Out, "Page not found: %s\n", p.env.Entry.Path)
	fmt.Fprintln(p.env.Out, "Run 'tripjournal routes' to list available pages.")
	return nil
}
