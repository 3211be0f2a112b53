package prompt

import (
	"context"
	"errors"
	"strings"
)

// Answers holds the generate inputs. Collect only asks for the empty ones.
type Answers struct {
	Template          string
	Records           string
	Compositor        string
	OutputDir         string
	IncludeIdentifier bool
}

// Collect fills the blanks in defaults by asking the user. compositors lists
// the selectable compositor names; the question is skipped when there is at
// most one or a compositor was already chosen.
func Collect(ctx context.Context, driver Driver, defaults Answers, compositors []string) (Answers, error) {
	if driver == nil {
		return Answers{}, errors.New("prompt: driver is required")
	}
	answers := defaults

	if answers.Template == "" {
		value, err := driver.Input(ctx, InputConfig{
			Message:   "Template image (path or URL):",
			Help:      "A JPEG or PNG the names are drawn onto.",
			Validator: required("template"),
		})
		if err != nil {
			return Answers{}, err
		}
		answers.Template = strings.TrimSpace(value)
	}

	if answers.Records == "" {
		value, err := driver.Input(ctx, InputConfig{
			Message:   "Recipient list (.xlsx, .csv, .yaml, .json):",
			Help:      "The first row must hold a Name column; a UID column is optional.",
			Validator: required("recipient list"),
		})
		if err != nil {
			return Answers{}, err
		}
		answers.Records = strings.TrimSpace(value)
	}

	if answers.Compositor == "" && len(compositors) > 1 {
		idx, err := driver.Select(ctx, SelectConfig{
			Message: "Compositor:",
			Options: compositors,
		})
		if err != nil {
			return Answers{}, err
		}
		if idx >= 0 && idx < len(compositors) {
			answers.Compositor = compositors[idx]
		}
	}

	if answers.OutputDir == "" {
		value, err := driver.Input(ctx, InputConfig{
			Message: "Output directory:",
			Default: ".",
		})
		if err != nil {
			return Answers{}, err
		}
		answers.OutputDir = strings.TrimSpace(value)
	}

	include, err := driver.Confirm(ctx, ConfirmConfig{
		Message: "Print the UID next to each name?",
		Default: defaults.IncludeIdentifier,
	})
	if err != nil {
		return Answers{}, err
	}
	answers.IncludeIdentifier = include

	return answers, nil
}

func required(field string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}
