package ui

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
)

// ErrPromptUnavailable is returned when a prompt is needed in
// non-interactive mode.
var ErrPromptUnavailable = errors.New("confirmation required but input is not interactive")

// PromptYesNo prompts the user for a yes/no answer
func (u *UI) PromptYesNo(prompt string, defaultYes bool) (bool, error) {
	if u.nonInteractive {
		return false, ErrPromptUnavailable
	}

	var result bool
	p := &survey.Confirm{
		Message: prompt,
		Default: defaultYes,
	}

	err := survey.AskOne(p, &result)
	return result, err
}
