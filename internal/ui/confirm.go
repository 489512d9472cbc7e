// Package ui provides the confirmation prompts the install and
// uninstall flows are gated on. Without a terminal every question is
// answered no, so headless runs never destroy anything implicitly.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrCancelled indicates the user aborted the prompt (ctrl-c).
var ErrCancelled = errors.New("ui: cancelled")

// InteractiveConfirmer prompts on the terminal.
type InteractiveConfirmer struct{}

// Confirm asks a yes/no question. Aborting the prompt yields
// ErrCancelled rather than an answer.
func (InteractiveConfirmer) Confirm(ctx context.Context, question string) (bool, error) {
	var answer bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&answer),
	))
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCancelled
		}
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return answer, nil
}

// AutoConfirmer answers every question the same way without prompting.
// Used for --yes and for non-interactive runs, where the answer is no.
type AutoConfirmer struct {
	Answer bool
}

func (a AutoConfirmer) Confirm(_ context.Context, question string) (bool, error) {
	verdict := "no"
	if a.Answer {
		verdict = "yes"
	}
	fmt.Fprintf(os.Stderr, "%s %s (auto)\n", question, verdict)
	return a.Answer, nil
}

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}
