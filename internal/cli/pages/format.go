package pages

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"

	"github.com/tripjournal/tripjournal/internal/cli/client"
)

// Trip statuses known to the backend
const (
	StatusPlanning  = "PLANNING"
	StatusOngoing   = "ONGOING"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// TripStatuses lists statuses in lifecycle order
var TripStatuses = []string{StatusPlanning, StatusOngoing, StatusCompleted, StatusCancelled}

var statusColors = map[string]string{
	StatusPlanning:  "warning",
	StatusOngoing:   "primary",
	StatusCompleted: "success",
	StatusCancelled: "danger",
}

var statusTexts = map[string]string{
	StatusPlanning:  "Planning",
	StatusOngoing:   "Ongoing",
	StatusCompleted: "Completed",
	StatusCancelled: "Cancelled",
}

var statusIcons = map[string]string{
	StatusPlanning:  "bi-calendar-check",
	StatusOngoing:   "bi-airplane",
	StatusCompleted: "bi-check-circle",
	StatusCancelled: "bi-x-circle",
}

// StatusColor prefers the backend's hint and falls back to the status' own colour
func StatusColor(status string, info *client.StatusInfo) string {
	if info != nil && info.Color != "" {
		return info.Color
	}
	if c, ok := statusColors[status]; ok {
		return c
	}
	return "secondary"
}

// StatusText prefers the backend's hint, then its description, then a fixed label
func StatusText(status, description string, info *client.StatusInfo) string {
	if info != nil && info.Description != "" {
		return info.Description
	}
	if description != "" {
		return description
	}
	if t, ok := statusTexts[status]; ok {
		return t
	}
	return "Unknown"
}

// StatusIcon prefers the backend's hint and falls back to the status' own icon
func StatusIcon(status string, info *client.StatusInfo) string {
	if info != nil && info.Icon != "" {
		return info.Icon
	}
	if i, ok := statusIcons[status]; ok {
		return i
	}
	return "bi-question-circle"
}

var iconGlyphs = map[string]string{
	"bi-calendar-check":  "◷",
	"bi-airplane":        "✈",
	"bi-check-circle":    "✔",
	"bi-x-circle":        "✖",
	"bi-question-circle": "?",
}

var colorStyles = map[string]func(interface{}) string{
	"warning":   promptui.Styler(promptui.FGYellow),
	"primary":   promptui.Styler(promptui.FGBlue),
	"success":   promptui.Styler(promptui.FGGreen),
	"danger":    promptui.Styler(promptui.FGRed),
	"secondary": promptui.Styler(promptui.FGFaint),
}

// statusBadge renders a trip status for the terminal
func statusBadge(t client.Trip) string {
	glyph, ok := iconGlyphs[StatusIcon(t.Status, t.StatusInfo)]
	if !ok {
		glyph = "•"
	}
	label := glyph + " " + StatusText(t.Status, t.StatusDescription, t.StatusInfo)
	if style, ok := colorStyles[StatusColor(t.Status, t.StatusInfo)]; ok {
		return style(label)
	}
	return label
}

func writeTrips(out io.Writer, trips []client.Trip) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDESTINATION\tDATES\tSTATUS")
	fmt.Fprintln(w, "──\t─────\t───────────\t─────\t──────")
	for _, t := range trips {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, t.Title, orDash(t.Destination), dateRange(t.StartDate, t.EndDate), statusBadge(t))
	}
	w.Flush()
}

func writeTravelLogs(out io.Writer, logs []client.TravelLog) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tTITLE\tLOCATION\tRATING")
	fmt.Fprintln(w, "──\t────\t─────\t────────\t──────")
	for _, l := range logs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", l.ID, l.LogDate, l.Title, orDash(l.Location), stars(l.Rating))
	}
	w.Flush()
}

func dateRange(start, end string) string {
	if end == "" {
		return start
	}
	return start + " ~ " + end
}

func stars(rating *int) string {
	if rating == nil || *rating <= 0 {
		return "-"
	}
	n := min(*rating, 5)
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func money(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func pageFooter(out io.Writer, number, totalPages int, totalElements int64) {
	if totalPages <= 1 {
		fmt.Fprintf(out, "\n%d total\n", totalElements)
		return
	}
	fmt.Fprintf(out, "\nPage %d of %d (%d total)\n", number+1, totalPages, totalElements)
}
