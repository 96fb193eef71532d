package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

type confirmImpl struct {
	theme    *Theme
	headless *HeadlessManager
}

// NewConfirm creates a Confirmer. Headless confirmations always succeed, so
// scripted runs never block on a prompt.
func NewConfirm(theme *Theme, hm *HeadlessManager) Confirmer {
	return &confirmImpl{theme: theme, headless: hm}
}

// Confirm asks title and returns the answer. Esc or Ctrl+C return ErrCancelled.
func (c *confirmImpl) Confirm(title, description string) (bool, error) {
	if c.headless.IsHeadless() {
		return true, nil
	}

	ok := true
	field := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Write").
		Negative("Cancel").
		Value(&ok)
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(c.theme.huhTheme()).
		WithAccessible(false)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCancelled
		}
		return false, fmt.Errorf("confirm: %w", err)
	}
	return ok, nil
}
