package pages

import (
	"context"
	"fmt"

	"github.com/tripjournal/tripjournal/internal/cli/client"
	"github.com/tripjournal/tripjournal/internal/cli/nav"
)

type loginPage struct {
	env *Env
}

func newLoginPage(env *Env) Page {
	return &loginPage{env: env}
}

func (p *loginPage) Init(ctx context.Context) error {
	id, err := p.env.Prompt.Ask(Field{Name: "usernameOrEmail", Label: "Username or email"})
	if err != nil {
		return err
	}
	password, err := p.env.Prompt.Ask(Field{Name: "password", Label: "Password", Secret: true})
	if err != nil {
		return err
	}

	fmt.Fprintf(p.env.Out, "Logging in to %s...\n", p.env.API.BaseURL())

	res, err := p.env.API.Login(client.LoginRequest{UsernameOrEmail: id, Password: password})
	if err != nil {
		showError(p.env.Out, err)
		return nil
	}
	if res.Data.Token == "" {
		showError(p.env.Out, fmt.Errorf("login response did not include a token"))
		return nil
	}

	if err := p.env.Session.Login(res.Data.Token, string(res.Data.User)); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}

	showSuccess(p.env.Out, res.Message)
	p.env.Nav.Navigate(nav.Root)
	return nil
}
