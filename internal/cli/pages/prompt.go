package pages

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrNonInteractive is returned when a value is needed but nobody can type it
var ErrNonInteractive = errors.New("input required but the terminal is not interactive")

// Field describes one input a page asks for
type Field struct {
	Name     string
	Label    string
	Secret   bool
	Optional bool
	Default  string
	// Options turns the field into a selection
	Options  []string
	Validate func(string) error
}

// Prompter collects field values
type Prompter interface {
	Ask(f Field) (string, error)
}

// TerminalPrompter asks on the controlling terminal
type TerminalPrompter struct{}

// Ask prompts for f with promptui. Without a terminal it settles for the
// default when the field can do without input.
func (TerminalPrompter) Ask(f Field) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		if f.Optional || f.Default != "" {
			return f.Default, nil
		}
		return "", fmt.Errorf("%s: %w", f.Name, ErrNonInteractive)
	}

	if len(f.Options) > 0 {
		return selectOption(f)
	}

	prompt := promptui.Prompt{
		Label:   f.Label,
		Default: f.Default,
		Validate: func(input string) error {
			if input == "" && !f.Optional {
				return errors.New("required")
			}
			if input == "" || f.Validate == nil {
				return nil
			}
			return f.Validate(input)
		},
	}
	if f.Secret {
		prompt.Mask = '*'
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s: input cancelled: %w", f.Name, err)
	}
	return strings.TrimSpace(value), nil
}

func selectOption(f Field) (string, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "{{ . | green }}",
	}

	cursor := 0
	for i, opt := range f.Options {
		if opt == f.Default {
			cursor = i
		}
	}

	prompt := promptui.Select{
		Label:     f.Label,
		Items:     f.Options,
		Templates: templates,
		CursorPos: cursor,
		Size:      10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s: selection cancelled: %w", f.Name, err)
	}
	return f.Options[index], nil
}

// FieldPrompter answers from preset values (the --set flags) and defers the rest to Fallback.
// Without a fallback, optional fields get their default and required ones fail.
type FieldPrompter struct {
	Values   map[string]string
	Fallback Prompter
}

// Ask returns the preset value for f, validated like typed input
func (p FieldPrompter) Ask(f Field) (string, error) {
	if value, ok := p.Values[f.Name]; ok {
		value = strings.TrimSpace(value)
		if value == "" {
			if !f.Optional {
				return "", fmt.Errorf("%s: required", f.Name)
			}
			return f.Default, nil
		}
		if len(f.Options) > 0 && !contains(f.Options, value) {
			return "", fmt.Errorf("%s: must be one of %s", f.Name, strings.Join(f.Options, ", "))
		}
		if f.Validate != nil {
			if err := f.Validate(value); err != nil {
				return "", fmt.Errorf("%s: %w", f.Name, err)
			}
		}
		return value, nil
	}

	if p.Fallback != nil {
		return p.Fallback.Ask(f)
	}
	if f.Optional || f.Default != "" {
		return f.Default, nil
	}
	return "", fmt.Errorf("%s: %w", f.Name, ErrNonInteractive)
}

// ParseAssignments turns "key=value" pairs into a map
func ParseAssignments(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", pair)
		}
		values[key] = value
	}
	return values, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
