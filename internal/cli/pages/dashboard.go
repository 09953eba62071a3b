package pages

import (
	"context"
	"fmt"

	"github.com/tripjournal/tripjournal/internal/cli/client"
)

const recentTripCount = 5

type dashboardPage struct {
	env *Env
}

func newDashboardPage(env *Env) Page {
	return &dashboardPage{env: env}
}

func (p *dashboardPage) Init(ctx context.Context) error {
	user, _, err := p.env.Session.CurrentUser()
	if err != nil {
		return err
	}
	out := p.env.Out

	fmt.Fprintf(out, "Dashboard for %s\n\n", user.Username())

	res, err := p.env.API.ListTrips(client.TripQuery{Size: recentTripCount})
	if err != nil {
		showError(out, err)
		return nil
	}

	if len(res.Data.Content) == 0 {
		fmt.Fprintln(out, "No trips yet.")
		fmt.Fprintln(out, "\nPlan one with: tripjournal open /trips/new")
		return nil
	}

	fmt.Fprintf(out, "Recent trips (%d total):\n\n", res.Data.TotalElements)
	writeTrips(out, res.Data.Content)
	fmt.Fprintln(out, "\nAll trips: tripjournal open /trips")
	return nil
}
