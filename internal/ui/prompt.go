package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/huh"
)

// dismiss is the select option that closes a dialog without a choice.
const dismiss = "Dismiss"

// PromptText asks for a line of text. ok is false when the user cancels.
func PromptText(ctx context.Context, title, defaultValue string) (string, bool, error) {
	value := defaultValue
	input := huh.NewInput().
		Title(title).
		Value(&value)
	err := huh.NewForm(huh.NewGroup(input)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Choose shows message and lets the user pick one of choices. It returns ""
// when the dialog is dismissed.
func Choose(ctx context.Context, severity Severity, message string, choices []string) (string, error) {
	if len(choices) == 0 {
		return "", nil
	}
	options := make([]huh.Option[string], 0, len(choices)+1)
	for _, c := range choices {
		options = append(options, huh.NewOption(c, c))
	}
	options = append(options, huh.NewOption(dismiss, ""))

	var choice string
	sel := huh.NewSelect[string]().
		Title(Render(severity, message)).
		Options(options...).
		Value(&choice)
	err := huh.NewForm(huh.NewGroup(sel)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return choice, nil
}

// Confirm asks a yes/no question.
func Confirm(ctx context.Context, title string) (bool, error) {
	var yes bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&yes),
	)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return yes, err
}
