package pages

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tripjournal/tripjournal/internal/cli/client"
)

const tripsPath = "/trips"

type tripListPage struct {
	env *Env
}

func newTripListPage(env *Env) Page {
	return &tripListPage{env: env}
}

func (p *tripListPage) Init(ctx context.Context) error {
	q := p.env.Query
	query := client.TripQuery{
		Page:          queryInt(q, "page", 0),
		Size:          queryInt(q, "size", 10),
		Status:        q.Get("status"),
		Destination:   q.Get("destination"),
		Title:         q.Get("title"),
		SortBy:        q.Get("sortBy"),
		SortDirection: q.Get("sortDirection"),
	}

	res, err := p.env.API.ListTrips(query)
	if err != nil {
		showError(p.env.Out, err)
		return nil
	}

	out := p.env.Out
	page := res.Data
	if len(page.Content) == 0 {
		fmt.Fprintln(out, "No trips found.")
		fmt.Fprintln(out, "\nPlan one with: tripjournal open /trips/new")
		return nil
	}

	writeTrips(out, page.Content)
	pageFooter(out, page.Number, page.TotalPages, page.TotalElements)
	if !page.Last {
		fmt.Fprintf(out, "Next page: tripjournal open '/trips?page=%d'\n", page.Number+1)
	}
	return nil
}

type tripFormPage struct {
	env *Env
}

func newTripFormPage(env *Env) Page {
	return &tripFormPage{env: env}
}

func (p *tripFormPage) Init(ctx context.Context) error {
	var (
		editing bool
		tripID  int64
		current client.Trip
	)
	if p.env.Query.Has("id") {
		id, err := queryID(p.env.Query, "id")
		if err != nil {
			showError(p.env.Out, err)
			p.env.Nav.Navigate(tripsPath)
			return nil
		}
		res, err := p.env.API.GetTrip(id)
		if err != nil {
			showError(p.env.Out, err)
			p.env.Nav.Navigate(tripsPath)
			return nil
		}
		editing, tripID, current = true, id, res.Data
	}

	req, err := p.ask(current)
	if err != nil {
		var invalid *invalidInput
		if errors.As(err, &invalid) {
			showError(p.env.Out, invalid)
			return nil
		}
		return err
	}

	var res *client.Response[client.Trip]
	if editing {
		res, err = p.env.API.UpdateTrip(tripID, req)
	} else {
		res, err = p.env.API.CreateTrip(req)
	}
	if err != nil {
		showError(p.env.Out, err)
		return nil
	}

	showSuccess(p.env.Out, res.Message)
	p.env.Nav.Navigate(tripsPath)
	return nil
}

// invalidInput is a form error the user can fix by re-entering values
type invalidInput struct {
	err error
}

func (e *invalidInput) Error() string { return e.err.Error() }

func (p *tripFormPage) ask(current client.Trip) (client.TripRequest, error) {
	ask := p.env.Prompt.Ask
	var req client.TripRequest
	var err error

	if req.Title, err = ask(Field{Name: "title", Label: "Title", Default: current.Title, Validate: fieldRule("title", "max=100")}); err != nil {
		return req, err
	}
	if req.Destination, err = ask(Field{Name: "destination", Label: "Destination", Optional: true, Default: current.Destination}); err != nil {
		return req, err
	}
	if req.StartDate, err = ask(Field{Name: "startDate", Label: "Start date (YYYY-MM-DD)", Default: current.StartDate, Validate: fieldRule("startDate", "datetime=2006-01-02")}); err != nil {
		return req, err
	}
	if req.EndDate, err = ask(Field{Name: "endDate", Label: "End date (YYYY-MM-DD)", Default: current.EndDate, Validate: fieldRule("endDate", "datetime=2006-01-02")}); err != nil {
		return req, err
	}

	status := current.Status
	if status == "" {
		status = StatusPlanning
	}
	if req.Status, err = ask(Field{Name: "status", Label: "Status", Options: TripStatuses, Default: status}); err != nil {
		return req, err
	}

	budgetDefault := ""
	if current.Budget != nil {
		budgetDefault = strconv.FormatInt(*current.Budget, 10)
	}
	budget, err := ask(Field{Name: "budget", Label: "Budget", Optional: true, Default: budgetDefault, Validate: fieldRule("budget", "omitempty,number")})
	if err != nil {
		return req, err
	}
	if req.Budget, err = optionalInt64(budget); err != nil {
		return req, &invalidInput{fmt.Errorf("budget: %w", err)}
	}

	if req.Description, err = ask(Field{Name: "description", Label: "Description", Optional: true, Default: current.Description}); err != nil {
		return req, err
	}

	if err := Validator().Struct(req); err != nil {
		return req, &invalidInput{validationMessage(err)}
	}
	if err := checkDateOrder(req.StartDate, req.EndDate); err != nil {
		return req, &invalidInput{err}
	}
	return req, nil
}

func checkDateOrder(start, end string) error {
	s, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return fmt.Errorf("startDate: %w", err)
	}
	e, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return fmt.Errorf("endDate: %w", err)
	}
	if e.Before(s) {
		return errors.New("end date must not be before the start date")
	}
	return nil
}

type tripDetailPage struct {
	env *Env
}

func newTripDetailPage(env *Env) Page {
	return &tripDetailPage{env: env}
}

func (p *tripDetailPage) Init(ctx context.Context) error {
	out := p.env.Out
	id, err := queryID(p.env.Query, "tripId")
	if err != nil {
		showError(out, err)
		p.env.Nav.Navigate(tripsPath)
		return nil
	}

	res, err := p.env.API.GetTrip(id)
	if err != nil {
		showError(out, err)
		return nil
	}
	t := res.Data

	switch p.env.Query.Get("action") {
	case "delete":
		return p.delete(t)
	case "status":
		return p.changeStatus(t)
	}

	fmt.Fprintf(out, "%s  %s\n\n", t.Title, statusBadge(t))
	fmt.Fprintf(out, "Destination: %s\n", orDash(t.Destination))
	fmt.Fprintf(out, "Dates:       %s", dateRange(t.StartDate, t.EndDate))
	if t.Duration > 0 {
		fmt.Fprintf(out, " (%d days)", t.Duration)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Budget:      %s\n", money(t.Budget))
	if t.Description != "" {
		fmt.Fprintf(out, "\n%s\n", t.Description)
	}

	logs, err := p.env.API.ListTravelLogs(client.TravelLogQuery{TripID: id})
	if err != nil {
		showError(out, err)
		return nil
	}

	fmt.Fprintln(out, "\nTravel logs:")
	if len(logs.Data.Content) == 0 {
		fmt.Fprintln(out, "  none yet")
	} else {
		writeTravelLogs(out, logs.Data.Content)
	}
	fmt.Fprintf(out, "\nWrite one: tripjournal open '/travel-logs/new?tripId=%d'\n", id)
	fmt.Fprintf(out, "Change status: tripjournal open '/trips/detail?tripId=%d&action=status'\n", id)
	return nil
}

func (p *tripDetailPage) changeStatus(t client.Trip) error {
	status, err := p.env.Prompt.Ask(Field{
		Name:    "status",
		Label:   fmt.Sprintf("New status for %q", t.Title),
		Options: TripStatuses,
		Default: t.Status,
	})
	if err != nil {
		return err
	}
	if status == t.Status {
		fmt.Fprintf(p.env.Out, "%s is already %s.\n", t.Title, StatusText(t.Status, t.StatusDescription, t.StatusInfo))
		return nil
	}

	res, err := p.env.API.UpdateTripStatus(t.ID, status)
	if err != nil {
		showError(p.env.Out, err)
		return nil
	}
	showSuccess(p.env.Out, res.Message)
	p.env.Nav.Navigate(fmt.Sprintf("/trips/detail?tripId=%d", t.ID))
	return nil
}

func (p *tripDetailPage) delete(t client.Trip) error {
	answer, err := p.env.Prompt.Ask(Field{
		Name:    "confirm",
		Label:   fmt.Sprintf("Delete %q and all its travel logs?", t.Title),
		Options: []string{"no", "yes"},
		Default: "no",
	})
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Fprintln(p.env.Out, "Cancelled.")
		return nil
	}

	res, err := p.env.API.DeleteTrip(t.ID)
	if err != nil {
		showError(p.env.Out, err)
		return nil
	}
	showSuccess(p.env.Out, res.Message)
	p.env.Nav.Navigate(tripsPath)
	return nil
}
