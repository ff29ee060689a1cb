package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

// PromptForSymbol asks for an instrument symbol when none was given.
func PromptForSymbol(defaultSymbol string) (string, error) {
	var symbol string
	prompt := &survey.Input{
		Message: "Enter the instrument symbol (e.g., XAUUSD, EURUSD):",
		Default: defaultSymbol,
		Help:    "The symbol the agent will scan and trade",
	}

	err := survey.AskOne(prompt, &symbol, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(strings.ToUpper(val.(string)))
		if len(str) == 0 {
			return fmt.Errorf("symbol cannot be empty")
		}
		if len(str) > 12 {
			return fmt.Errorf("symbol too long (max 12 characters)")
		}
		matched, _ := regexp.MatchString(`^[A-Z0-9.-]+$`, str)
		if !matched {
			return fmt.Errorf("invalid symbol format (use letters, numbers, dots, and hyphens only)")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(strings.ToUpper(symbol)), nil
}

// ConfirmLiveMode double-checks that the operator really wants orders routed
// through the execution bridge instead of the paper ledger.
func ConfirmLiveMode(bridgeURL string) (bool, error) {
	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Non-simulated mode: orders will be dispatched to %s. Continue?", bridgeURL),
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}
