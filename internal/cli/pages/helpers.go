package pages

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/tripjournal/tripjournal/internal/cli/client"
)

// showError prints a failure the way the user should read it
func showError(out io.Writer, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(out, "✗ %s\n", apiErr.Error())
		return
	}
	fmt.Fprintf(out, "✗ %v\n", err)
}

func showSuccess(out io.Writer, message string) {
	if message == "" {
		return
	}
	fmt.Fprintf(out, "✓ %s\n", message)
}

// queryID reads a required positive numeric id from the query string
func queryID(q url.Values, name string) (int64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s parameter", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter %q", name, raw)
	}
	return id, nil
}

// queryInt reads an optional non-negative int, falling back to def
func queryInt(q url.Values, name string, def int) int {
	n, err := strconv.Atoi(q.Get(name))
	if err != nil || n < 0 {
		return def
	}
	return n
}

func optionalInt64(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return &n, nil
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	return &n, nil
}
