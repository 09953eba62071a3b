package routes

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// NotFoundModule is resolved for paths missing from the table
const NotFoundModule = "not-found"

//go:embed routes.yaml
var defaultTable []byte

// Entry maps a path to a page module and its auth requirement
type Entry struct {
	Path         string `yaml:"path"`
	Module       string `yaml:"module"`
	RequiresAuth bool   `yaml:"requiresAuth"`
}

// Table is an immutable, exact-match routing table
type Table struct {
	entries map[string]Entry
}

type tableFile struct {
	Routes []Entry `yaml:"routes"`
}

// Parse builds a table from YAML
func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse routes: %w", err)
	}

	t := &Table{entries: make(map[string]Entry, len(f.Routes))}
	for _, e := range f.Routes {
		if e.Path == "" || e.Module == "" {
			return nil, fmt.Errorf("route %+v: path and module are required", e)
		}
		if _, dup := t.entries[e.Path]; dup {
			return nil, fmt.Errorf("duplicate route %s", e.Path)
		}
		t.entries[e.Path] = e
	}
	return t, nil
}

// Default returns the application's routing table
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("embedded routes.yaml is invalid: %v", err))
	}
	return t
}

// Lookup returns the entry for path. There is no normalisation:
// "/trips/" and "/trips" are different keys.
func (t *Table) Lookup(path string) (Entry, bool) {
	e, ok := t.entries[path]
	return e, ok
}

// Resolve returns the entry for path, or the not-found entry
func (t *Table) Resolve(path string) Entry {
	if e, ok := t.entries[path]; ok {
		return e
	}
	return Entry{Path: path, Module: NotFoundModule, RequiresAuth: false}
}

// Entries returns all entries sorted by path
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
