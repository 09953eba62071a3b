package e2e

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripjournal/tripjournal/internal/models"
	"github.com/tripjournal/tripjournal/tests/e2e/testhelpers"
)

func TestJournalFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	backend := testhelpers.StartBackend(t)
	db := backend.Server.GetDB()

	var tripID int64

	// ===================================================================
	// Anonymous visitor: protected pages bounce to the login page
	// ===================================================================
	t.Run("Anonymous", func(t *testing.T) {
		out, err := backend.Run(t, "status")
		require.NoError(t, err)
		assert.Contains(t, out, "Not signed in (Guest)")

		out, err = backend.Run(t, "open", "/trips", "--no-follow")
		require.NoError(t, err)
		assert.Contains(t, out, "→ /login")
	})

	t.Run("SignupAndLogin", func(t *testing.T) {
		// Signup navigates to the login page, which reuses the same --set values
		out, err := backend.Run(t, "open", "/signup",
			"--set", "username=alice",
			"--set", "email=alice@example.com",
			"--set", "password=secret1",
			"--set", "confirmPassword=secret1",
			"--set", "usernameOrEmail=alice",
		)
		require.NoError(t, err)
		assert.Contains(t, out, "Sign up complete")
		assert.Contains(t, out, "✓ Login successful")
		assert.Contains(t, out, "Welcome back, alice!")

		out, err = backend.Run(t, "status")
		require.NoError(t, err)
		assert.Contains(t, out, "Signed in as alice")

		// The same username cannot be registered twice
		backend.JWTToken = ""
		resp := backend.APICall(t, "GET", "/api/auth/check-username?username=alice", nil)
		assert.Equal(t, true, resp["data"])
	})

	t.Run("PlanTrip", func(t *testing.T) {
		out, err := backend.Run(t, "open", "/trips/new",
			"--set", "title=Jeju",
			"--set", "destination=Jeju Island",
			"--set", "startDate=2024-05-01",
			"--set", "endDate=2024-05-03",
		)
		require.NoError(t, err)
		assert.Contains(t, out, "Jeju Island", "the form follows its redirect to the trip list")

		var trip models.Trip
		require.NoError(t, db.Where("title = ?", "Jeju").First(&trip).Error)
		assert.Equal(t, models.TripPlanning, trip.Status)
		tripID = trip.ID

		out, err = backend.Run(t, "open", fmt.Sprintf("/trips/detail?tripId=%d", tripID))
		require.NoError(t, err)
		assert.Contains(t, out, "(3 days)")
		assert.Contains(t, out, "none yet")
	})

	t.Run("WriteTravelLogWithPhoto", func(t *testing.T) {
		require.NotZero(t, tripID)

		photo := filepath.Join(t.TempDir(), "beach.jpg")
		require.NoError(t, os.WriteFile(photo, []byte("not really a jpeg"), 0o644))

		out, err := backend.Run(t, "open", fmt.Sprintf("/travel-logs/new?tripId=%d", tripID),
			"--set", "title=First swim",
			"--set", "logDate=2024-05-02",
			"--set", "location=Hyeopjae",
			"--set", "rating=5",
			"--set", "tags=beach, food",
			"--set", "photos="+photo,
		)
		require.NoError(t, err)
		assert.Contains(t, out, "First swim", "the form follows its redirect to the trip detail")

		var entry models.TravelLog
		require.NoError(t, db.Preload("Tags").Preload("Photos").Where("trip_id = ?", tripID).First(&entry).Error)
		assert.Len(t, entry.Tags, 2)
		require.Len(t, entry.Photos, 1)
		assert.Equal(t, "beach.jpg", entry.Photos[0].OriginalName)

		out, err = backend.Run(t, "open", fmt.Sprintf("/travel-logs/detail?travelLogId=%d", entry.ID))
		require.NoError(t, err)
		assert.Contains(t, out, "Hyeopjae")
		assert.Contains(t, out, "beach")
	})

	t.Run("ChangeTripStatus", func(t *testing.T) {
		require.NotZero(t, tripID)

		out, err := backend.Run(t, "open", fmt.Sprintf("/trips/detail?tripId=%d&action=status", tripID),
			"--set", "status=ONGOING",
		)
		require.NoError(t, err)
		assert.Contains(t, out, "Ongoing")

		var trip models.Trip
		require.NoError(t, db.First(&trip, tripID).Error)
		assert.Equal(t, models.TripOngoing, trip.Status)
	})

	t.Run("FilterAndDeleteTravelLog", func(t *testing.T) {
		require.NotZero(t, tripID)

		out, err := backend.Run(t, "open", "/travel-logs?location=hyeop&logDate=2024-05-02")
		require.NoError(t, err)
		assert.Contains(t, out, "First swim")

		out, err = backend.Run(t, "open", "/travel-logs?logDate=2024-05-03")
		require.NoError(t, err)
		assert.Contains(t, out, "No travel logs match these filters.")

		var entry models.TravelLog
		require.NoError(t, db.Where("trip_id = ?", tripID).First(&entry).Error)

		out, err = backend.Run(t, "open", fmt.Sprintf("/travel-logs/detail?travelLogId=%d&action=delete", entry.ID),
			"--set", "confirm=yes",
		)
		require.NoError(t, err)
		assert.Contains(t, out, "No travel logs for this trip yet.")

		var count int64
		require.NoError(t, db.Model(&models.TravelLog{}).Where("trip_id = ?", tripID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("Logout", func(t *testing.T) {
		out, err := backend.Run(t, "logout")
		require.NoError(t, err)
		assert.Contains(t, out, "✓ Logged out")

		out, err = backend.Run(t, "open", "/dashboard", "--no-follow")
		require.NoError(t, err)
		assert.Contains(t, out, "→ /login")
		assert.NotContains(t, out, "Jeju")
	})
}
