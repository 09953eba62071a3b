package pages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripjournal/tripjournal/internal/cli/client"
)

func TestFieldPrompter(t *testing.T) {
	p := FieldPrompter{Values: map[string]string{"title": " Jeju ", "status": "DONE", "empty": ""}}

	v, err := p.Ask(Field{Name: "title"})
	require.NoError(t, err)
	assert.Equal(t, "Jeju", v)

	_, err = p.Ask(Field{Name: "status", Options: TripStatuses})
	assert.ErrorContains(t, err, "must be one of")

	_, err = p.Ask(Field{Name: "empty"})
	assert.ErrorContains(t, err, "required")

	v, err = p.Ask(Field{Name: "missing", Optional: true, Default: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	_, err = p.Ask(Field{Name: "missing"})
	assert.ErrorIs(t, err, ErrNonInteractive)

	_, err = p.Ask(Field{Name: "title", Validate: func(string) error { return errors.New("nope") }})
	assert.ErrorContains(t, err, "title: nope")
}

func TestFieldPrompter_Fallback(t *testing.T) {
	inner := FieldPrompter{Values: map[string]string{"password": "s3cret"}}
	p := FieldPrompter{Values: map[string]string{}, Fallback: inner}

	v, err := p.Ask(Field{Name: "password", Secret: true})
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)
}

func TestParseAssignments(t *testing.T) {
	got, err := ParseAssignments([]string{"title=Jeju", "content=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"title": "Jeju", "content": "a=b", "empty": ""}, got)

	_, err = ParseAssignments([]string{"novalue"})
	assert.Error(t, err)
	_, err = ParseAssignments([]string{"=x"})
	assert.Error(t, err)
}

func TestFieldRule(t *testing.T) {
	rule := fieldRule("username", "min=3,max=15,username")
	assert.NoError(t, rule("trip_fan"))
	assert.EqualError(t, rule("ab"), "username must be at least 3 characters")
	assert.EqualError(t, rule("bad-name"), "username may only contain letters, digits and underscores")
}

func TestValidationMessage_NumericBounds(t *testing.T) {
	rating, expenses := 9, int64(-1)
	err := Validator().Struct(client.TravelLogRequest{
		Title:    "Day one",
		LogDate:  "2024-05-01",
		Rating:   &rating,
		Expenses: &expenses,
	})
	assert.EqualError(t, validationMessage(err), "expenses must be at least 0; rating must be at most 5")

	budget := int64(-1)
	err = Validator().Struct(client.TripRequest{
		Title:     "Jeju",
		StartDate: "2024-05-01",
		EndDate:   "2024-05-04",
		Budget:    &budget,
	})
	assert.EqualError(t, validationMessage(err), "budget must be at least 0")
}
