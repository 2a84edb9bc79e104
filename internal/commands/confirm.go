package commands

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
)

// errNotConfirmed is returned when the user declines a confirmation prompt.
var errNotConfirmed = errors.New("cancelled")

// confirm asks the user to approve a destructive action. It reports false
// without prompting when stdin is not a terminal, so scripted callers must
// pass --yes.
func confirm(title, description string) (bool, error) {
	if !isTerminal(os.Stdin) {
		return false, nil
	}

	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, errNotConfirmed
	}
	if err != nil {
		return false, err
	}
	if !ok {
		return false, errNotConfirmed
	}
	return true, nil
}
