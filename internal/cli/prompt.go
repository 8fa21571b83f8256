package cli

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// Prompter asks the terminal for input that must not be passed as a flag.
type Prompter interface {
	Password(title string) (string, error)
	Confirm(title string) (bool, error)
}

type HuhPrompter struct{}

func (HuhPrompter) Password(title string) (string, error) {
	var password string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("password is required")
					}
					return nil
				}),
		),
	).Run()
	return password, err
}

func (HuhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).Run()
	return ok, err
}

// StaticPrompter answers every prompt with fixed values.
type StaticPrompter struct {
	Secret string
	Yes    bool
}

func (p StaticPrompter) Password(string) (string, error) { return p.Secret, nil }

func (p StaticPrompter) Confirm(string) (bool, error) { return p.Yes, nil }
