package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripjournal/tripjournal/internal/cli/client"
)

func TestStatusPresentation(t *testing.T) {
	hint := &client.StatusInfo{Description: "Soon", Color: "info", Icon: "bi-star"}

	assert.Equal(t, "info", StatusColor(StatusPlanning, hint))
	assert.Equal(t, "warning", StatusColor(StatusPlanning, nil))
	assert.Equal(t, "secondary", StatusColor("ARCHIVED", nil))

	assert.Equal(t, "Soon", StatusText(StatusOngoing, "In progress", hint))
	assert.Equal(t, "In progress", StatusText(StatusOngoing, "In progress", nil))
	assert.Equal(t, "Ongoing", StatusText(StatusOngoing, "", nil))
	assert.Equal(t, "Unknown", StatusText("ARCHIVED", "", nil))

	assert.Equal(t, "bi-star", StatusIcon(StatusCompleted, hint))
	assert.Equal(t, "bi-check-circle", StatusIcon(StatusCompleted, nil))
	assert.Equal(t, "bi-question-circle", StatusIcon("", nil))
}

func TestStars(t *testing.T) {
	three := 3
	seven := 7
	assert.Equal(t, "-", stars(nil))
	assert.Equal(t, "★★★☆☆", stars(&three))
	assert.Equal(t, "★★★★★", stars(&seven))
}
