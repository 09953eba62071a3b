package pages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tripjournal/tripjournal/internal/cli/client"
)

// Defaults for tags created on the fly from the travel log form
const (
	DefaultTagColor    = "#6c757d"
	DefaultTagCategory = "OTHER"
)

// TagCategories lists the categories the backend accepts for a tag
var TagCategories = []string{
	"LOCATION", "ACTIVITY", "FOOD", "TRANSPORT", "ACCOMMODATION", "WEATHER",
	"MOOD", "PEOPLE", "CULTURE", "NATURE", "CITY", "COUNTRYSIDE", "MOUNTAIN",
	"BEACH", "MUSEUM", "SHOPPING", "NIGHTLIFE", DefaultTagCategory,
}

type travelLogListPage struct {
	env *Env
}

func newTravelLogListPage(env *Env) Page {
	return &travelLogListPage{env: env}
}

func (p *travelLogListPage) Init(ctx context.Context) error {
	out := p.env.Out
	q := p.env.Query
	if q.Get("action") == "filter" {
		return p.filter()
	}

	query := client.TravelLogQuery{
		Location: q.Get("location"),
		LogDate:  q.Get("logDate"),
		Page:     queryInt(q, "page", 0),
		Size:     queryInt(q, "size", 10),
	}
	if query.LogDate != "" {
		if err := fieldRule("logDate", "datetime=2006-01-02")(query.LogDate); err != nil {
			showError(out, err)
			return nil
		}
	}

	if q.Has("tripId") {
		tripID, err := queryID(q, "tripId")
		if err != nil {
			showError(out, err)
			p.env.Nav.Navigate(tripsPath)
			return nil
		}
		query.TripID = tripID
	} else if query.Location == "" && query.LogDate == "" {
		return p.listTrips()
	}

	res, err := p.env.API.ListTravelLogs(query)
	if err != nil {
		showError(out, err)
		return nil
	}

	page := res.Data
	if len(page.Content) == 0 {
		if query.TripID == 0 {
			fmt.Fprintln(out, "No travel logs match these filters.")
			return nil
		}
		fmt.Fprintln(out, "No travel logs for this trip yet.")
		fmt.Fprintf(out, "\nWrite one: tripjournal open '/travel-logs/new?tripId=%d'\n", query.TripID)
		return nil
	}

	writeTravelLogs(out, page.Content)
	pageFooter(out, page.Number, page.TotalPages, page.TotalElements)
	fmt.Fprintln(out, "\nOpen one: tripjournal open '/travel-logs/detail?travelLogId=<id>'")
	fmt.Fprintln(out, "Filter: tripjournal open '/travel-logs?action=filter'")
	return nil
}

// filter asks for the location and day to narrow the list to, then reopens it
func (p *travelLogListPage) filter() error {
	q := p.env.Query
	location, err := p.env.Prompt.Ask(Field{
		Name:     "location",
		Label:    "Location contains",
		Optional: true,
		Default:  q.Get("location"),
	})
	if err != nil {
		return err
	}
	logDate, err := p.env.Prompt.Ask(Field{
		Name:     "logDate",
		Label:    "Log date (YYYY-MM-DD)",
		Optional: true,
		Default:  q.Get("logDate"),
		Validate: fieldRule("logDate", "datetime=2006-01-02"),
	})
	if err != nil {
		return err
	}

	next := url.Values{}
	if tripID := q.Get("tripId"); tripID != "" {
		next.Set("tripId", tripID)
	}
	if location != "" {
		next.Set("location", location)
	}
	if logDate != "" {
		next.Set("logDate", logDate)
	}
	if len(next) == 0 {
		p.env.Nav.Navigate("/travel-logs")
		return nil
	}
	p.env.Nav.Navigate("/travel-logs?" + next.Encode())
	return nil
}

// listTrips shows which trips have logs to browse
func (p *travelLogListPage) listTrips() error {
	res, err := p.env.API.ListTrips(client.TripQuery{Size: 100})
	if err != nil {
		showError(p.env.Out, err)
		return nil
	}
	if len(res.Data.Content) == 0 {
		fmt.Fprintln(p.env.Out, "No trips yet. Travel logs belong to a trip.")
		return nil
	}
	fmt.Fprintln(p.env.Out, "Pick a trip: tripjournal open '/travel-logs?tripId=<id>'")
	fmt.Fprintln(p.env.Out)
	writeTrips(p.env.Out, res.Data.Content)
	return nil
}

type travelLogFormPage struct {
	env *Env
	// category narrows the tag suggestions and is given to tags created by the form
	category string
}

func newTravelLogFormPage(env *Env) Page {
	return &travelLogFormPage{env: env}
}

func (p *travelLogFormPage) Init(ctx context.Context) error {
	out := p.env.Out
	tripID, err := queryID(p.env.Query, "tripId")
	if err != nil {
		showError(out, err)
		p.env.Nav.Navigate(tripsPath)
		return nil
	}

	trip, err := p.env.API.GetTrip(tripID)
	if err != nil {
		showError(out, err)
		return nil
	}
	fmt.Fprintf(out, "New travel log for %s\n\n", trip.Data.Title)

	p.category = strings.ToUpper(p.env.Query.Get("tagCategory"))
	if p.category != "" && !contains(TagCategories, p.category) {
		showError(out, fmt.Errorf("unknown tag category %s", p.env.Query.Get("tagCategory")))
		return nil
	}

	req, tagNames, paths, err := p.ask()
	if err != nil {
		var invalid *invalidInput
		if errors.As(err, &invalid) {
			showError(out, invalid)
			return nil
		}
		return err
	}

	req.TagIDs = p.resolveTags(tagNames)

	files, err := p.readFiles(paths)
	if err != nil {
		showError(out, err)
		return nil
	}

	res, err := p.env.API.CreateTravelLog(tripID, req, files...)
	if err != nil {
		showError(out, err)
		return nil
	}

	showSuccess(out, res.Message)
	p.env.Nav.Navigate(fmt.Sprintf("/trips/detail?tripId=%d", tripID))
	return nil
}

func (p *travelLogFormPage) ask() (client.TravelLogRequest, []string, []string, error) {
	ask := p.env.Prompt.Ask
	var req client.TravelLogRequest
	var err error

	if req.Title, err = ask(Field{Name: "title", Label: "Title", Validate: fieldRule("title", "max=100")}); err != nil {
		return req, nil, nil, err
	}
	today := time.Now().Format(time.DateOnly)
	if req.LogDate, err = ask(Field{Name: "logDate", Label: "Date (YYYY-MM-DD)", Default: today, Validate: fieldRule("logDate", "datetime=2006-01-02")}); err != nil {
		return req, nil, nil, err
	}
	if req.Location, err = ask(Field{Name: "location", Label: "Location", Optional: true}); err != nil {
		return req, nil, nil, err
	}
	if req.Mood, err = ask(Field{Name: "mood", Label: "Mood", Optional: true}); err != nil {
		return req, nil, nil, err
	}
	if req.Content, err = ask(Field{Name: "content", Label: "Content", Optional: true}); err != nil {
		return req, nil, nil, err
	}

	expenses, err := ask(Field{Name: "expenses", Label: "Expenses", Optional: true, Validate: fieldRule("expenses", "omitempty,number")})
	if err != nil {
		return req, nil, nil, err
	}
	if req.Expenses, err = optionalInt64(expenses); err != nil {
		return req, nil, nil, &invalidInput{fmt.Errorf("expenses: %w", err)}
	}

	rating, err := ask(Field{Name: "rating", Label: "Rating (1-5)", Optional: true, Validate: fieldRule("rating", "omitempty,oneof=1 2 3 4 5")})
	if err != nil {
		return req, nil, nil, err
	}
	if req.Rating, err = optionalInt(rating); err != nil {
		return req, nil, nil, &invalidInput{fmt.Errorf("rating: %w", err)}
	}

	p.suggestTags()
	tags, err := ask(Field{Name: "tags", Label: "Tags (comma separated)", Optional: true})
	if err != nil {
		return req, nil, nil, err
	}
	photos, err := ask(Field{Name: "photos", Label: fmt.Sprintf("Photos (up to %d paths, comma separated)", client.MaxFiles), Optional: true})
	if err != nil {
		return req, nil, nil, err
	}

	if err := Validator().Struct(req); err != nil {
		return req, nil, nil, &invalidInput{validationMessage(err)}
	}
	return req, splitList(tags), splitList(photos), nil
}

// suggestTags prints the existing tags, narrowed to the form's category when set
func (p *travelLogFormPage) suggestTags() {
	res, err := p.env.API.ListTags(p.category)
	if err != nil {
		p.env.Log.Warn().Err(err).Msg("Failed to load tags")
		return
	}
	if len(res.Data) == 0 {
		return
	}
	names := make([]string, len(res.Data))
	for i, t := range res.Data {
		names[i] = "#" + t.Name
	}
	fmt.Fprintf(p.env.Out, "Existing tags: %s\n", strings.Join(names, " "))
}

// resolveTags maps tag names to ids, creating the ones that do not exist yet.
// A tag that cannot be created is dropped so the log itself is still saved.
func (p *travelLogFormPage) resolveTags(names []string) []int64 {
	ids := make([]int64, 0, len(names))
	seen := map[int64]bool{}
	for _, name := range names {
		id, ok := p.findTag(name)
		if !ok {
			category := p.category
			if category == "" {
				category = DefaultTagCategory
			}
			created, err := p.env.API.CreateTag(client.TagRequest{Name: name, Category: category, Color: DefaultTagColor})
			if err != nil {
				p.env.Log.Warn().Err(err).Str("tag", name).Msg("Failed to create tag")
				continue
			}
			id = created.Data.ID
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// findTag looks name up by keyword and keeps only an exact, case-insensitive match
func (p *travelLogFormPage) findTag(name string) (int64, bool) {
	res, err := p.env.API.SearchTags(name)
	if err != nil {
		p.env.Log.Warn().Err(err).Str("tag", name).Msg("Failed to search tags")
		return 0, false
	}
	for _, t := range res.Data {
		if strings.EqualFold(t.Name, name) {
			return t.ID, true
		}
	}
	return 0, false
}

// readFiles loads the photos to upload, keeping at most client.MaxFiles
func (p *travelLogFormPage) readFiles(paths []string) ([]client.File, error) {
	if len(paths) > client.MaxFiles {
		fmt.Fprintf(p.env.Out, "Only the first %d photos will be uploaded.\n", client.MaxFiles)
		paths = paths[:client.MaxFiles]
	}

	files := make([]client.File, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read photo: %w", err)
		}
		files = append(files, client.File{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Content:     bytes.NewReader(content),
		})
	}
	return files, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type travelLogDetailPage struct {
	env *Env
}

func newTravelLogDetailPage(env *Env) Page {
	return &travelLogDetailPage{env: env}
}

func (p *travelLogDetailPage) Init(ctx context.Context) error {
	out := p.env.Out
	id, err := queryID(p.env.Query, "travelLogId")
	if err != nil {
		showError(out, err)
		p.env.Nav.Navigate("/travel-logs")
		return nil
	}

	res, err := p.env.API.GetTravelLog(id)
	if err != nil {
		showError(out, err)
		return nil
	}
	l := res.Data
	if p.env.Query.Get("action") == "delete" {
		return p.delete(l)
	}

	fmt.Fprintf(out, "%s\n", l.Title)
	fmt.Fprintf(out, "%s · %s · %s\n", l.LogDate, orDash(l.Location), stars(l.Rating))
	if l.Mood != "" {
		fmt.Fprintf(out, "Mood: %s\n", l.Mood)
	}
	if l.Expenses != nil {
		fmt.Fprintf(out, "Expenses: %s\n", money(l.Expenses))
	}
	if l.Content != "" {
		fmt.Fprintf(out, "\n%s\n", l.Content)
	}

	// Tags and photos are secondary: failures are reported and the page goes on
	if tags, err := p.env.API.TravelLogTags(id); err != nil {
		p.env.Log.Warn().Err(err).Msg("Failed to load tags")
	} else if len(tags.Data) > 0 {
		names := make([]string, len(tags.Data))
		for i, t := range tags.Data {
			names[i] = "#" + t.Name
		}
		fmt.Fprintf(out, "\nTags: %s\n", strings.Join(names, " "))
	}

	if photos, err := p.env.API.TravelLogPhotos(id); err != nil {
		p.env.Log.Warn().Err(err).Msg("Failed to load photos")
	} else if len(photos.Data) > 0 {
		fmt.Fprintln(out, "\nPhotos:")
		for _, ph := range photos.Data {
			fmt.Fprintf(out, "  %s\n", p.photoURL(ph.URL))
		}
	}

	fmt.Fprintf(out, "\nDelete: tripjournal open '/travel-logs/detail?travelLogId=%d&action=delete'\n", id)
	return nil
}

func (p *travelLogDetailPage) delete(l client.TravelLog) error {
	answer, err := p.env.Prompt.Ask(Field{
		Name:    "confirm",
		Label:   fmt.Sprintf("Delete %q and its photos?", l.Title),
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

	res, err := p.env.API.DeleteTravelLog(l.ID)
	if err != nil {
		showError(p.env.Out, err)
		return nil
	}
	showSuccess(p.env.Out, res.Message)
	if l.Trip != nil {
		p.env.Nav.Navigate(fmt.Sprintf("/travel-logs?tripId=%d", l.Trip.ID))
	} else {
		p.env.Nav.Navigate("/travel-logs")
	}
	return nil
}

func (p *travelLogDetailPage) photoURL(u string) string {
	if strings.HasPrefix(u, "/") {
		return p.env.API.BaseURL() + u
	}
	return u
}
