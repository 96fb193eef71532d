// Package ui renders pbxpatch results to the terminal and asks the few
// questions the tool needs. Every component degrades to plain text when
// stdin is not a terminal or color is disabled.
package ui

import (
	"context"
	"errors"
)

var (
	// ErrCancelled is returned when the user aborts a prompt.
	ErrCancelled = errors.New("ui: cancelled by user")

	// ErrHeadlessNoDefaults is returned when a prompt runs headless and no
	// default answers were provided.
	ErrHeadlessNoDefaults = errors.New("ui: headless mode requires default values")
)

// Progress starts progress indicators.
type Progress interface {
	Start(title string, total int) ProgressBar
}

// ProgressBar tracks a determinate amount of work.
type ProgressBar interface {
	Increment(n int)
	SetTitle(title string)
	Done()
}

// Confirmer asks a yes/no question before a destructive step.
type Confirmer interface {
	Confirm(title, description string) (bool, error)
}

// Wizard collects the answers needed to write a starter config file.
type Wizard interface {
	Run(ctx context.Context, targets []string) (*InitAnswers, error)
}
