package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type travelLogForm struct {
	Title   string   `json:"title" validate:"min=2"`
	Rating  *int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Budget  *int64   `json:"budget,omitempty" validate:"omitempty,min=0"`
	Photos  []string `json:"photos" validate:"max=2"`
	Day     string   `json:"logDate" validate:"omitempty,datetime=2006-01-02"`
	Account string   `json:"-" validate:"omitempty,username"`
}

func messages(t *testing.T, form travelLogForm) map[string]string {
	t.Helper()
	err := New().Struct(form)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)

	got := map[string]string{}
	for _, fe := range verrs {
		got[fe.Field()] = Message(fe)
	}
	return got
}

func TestMessage_BoundsByKind(t *testing.T) {
	rating, budget := 9, int64(-1)

	got := messages(t, travelLogForm{
		Title:  "x",
		Rating: &rating,
		Budget: &budget,
		Photos: []string{"a", "b", "c"},
	})

	assert.Equal(t, map[string]string{
		"title":  "must be at least 2 characters",
		"rating": "must be at most 5",
		"budget": "must be at least 0",
		"photos": "must be at most 2 items",
	}, got)
}

func TestMessage_Rules(t *testing.T) {
	got := messages(t, travelLogForm{Title: "ok", Day: "May 1st", Account: "bad-name"})

	assert.Equal(t, "must be a date (YYYY-MM-DD)", got["logDate"])
	// json:"-" keeps the Go field name
	assert.Equal(t, "may only contain letters, digits and underscores", got["Account"])
}

func TestUsernamePattern(t *testing.T) {
	assert.True(t, UsernamePattern.MatchString("jeju_2024"))
	assert.False(t, UsernamePattern.MatchString("jeju 2024"))
	assert.False(t, UsernamePattern.MatchString(""))
}
