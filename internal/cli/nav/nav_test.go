package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_NavigateAndNext(t *testing.T) {
	loc := NewLocation("/trips")

	_, ok := loc.Next()
	require.False(t, ok)

	loc.Navigate("/login")
	loc.Navigate(Root)

	next, ok := loc.Next()
	require.True(t, ok)
	assert.Equal(t, Root, next)
	assert.Equal(t, Root, loc.Current())
	assert.Equal(t, []string{"/trips"}, loc.History())

	_, ok = loc.Next()
	assert.False(t, ok)
}

func TestSplit(t *testing.T) {
	path, q := Split("/trips/detail?tripId=3")
	assert.Equal(t, "/trips/detail", path)
	assert.Equal(t, "3", q.Get("tripId"))

	path, q = Split("")
	assert.Equal(t, Root, path)
	assert.Empty(t, q)

	path, _ = Split("/trips/")
	assert.Equal(t, "/trips/", path)
}
