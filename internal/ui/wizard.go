package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/modu-ai/pbxpatch/pkg/models"
)

// Keys understood by HeadlessManager.SetDefaults for the init wizard.
const (
	DefaultKeyProject        = "project"
	DefaultKeyTarget         = "target"
	DefaultKeyOnUnknownGroup = "on_unknown_group"
)

// InitAnswers is what the init wizard collects.
type InitAnswers struct {
	Project        string
	Target         string
	OnUnknownGroup models.GroupPolicy
}

// wizardImpl implements the Wizard interface.
type wizardImpl struct {
	theme    *Theme
	headless *HeadlessManager
}

// NewWizard creates a Wizard backed by the given theme and headless manager.
// The headless defaults also prefill the interactive questions.
func NewWizard(theme *Theme, hm *HeadlessManager) Wizard {
	return &wizardImpl{theme: theme, headless: hm}
}

// Run asks for the project, target and unknown-group policy. targets lists
// the native targets to choose from. Headless runs return the stored
// defaults and fail with ErrHeadlessNoDefaults when there are none.
func (w *wizardImpl) Run(ctx context.Context, targets []string) (*InitAnswers, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if w.headless.IsHeadless() {
		return w.runHeadless()
	}
	return w.runInteractive(ctx, targets)
}

func (w *wizardImpl) runHeadless() (*InitAnswers, error) {
	if !w.headless.HasDefaults() {
		return nil, ErrHeadlessNoDefaults
	}
	return w.defaults(), nil
}

func (w *wizardImpl) defaults() *InitAnswers {
	a := &InitAnswers{OnUnknownGroup: models.PolicyAbort}
	if v, ok := w.headless.GetDefault(DefaultKeyProject); ok {
		a.Project = v
	}
	if v, ok := w.headless.GetDefault(DefaultKeyTarget); ok {
		a.Target = v
	}
	if v, ok := w.headless.GetDefault(DefaultKeyOnUnknownGroup); ok && v != "" {
		a.OnUnknownGroup = models.GroupPolicy(v)
	}
	return a
}

// runInteractive runs each question as its own form; huh 0.8 mis-scrolls
// when several groups share one viewport.
func (w *wizardImpl) runInteractive(ctx context.Context, targets []string) (*InitAnswers, error) {
	a := w.defaults()

	fields := []huh.Field{
		huh.NewInput().
			Title("Xcode project").
			Description("Path to the .xcodeproj bundle, relative to the config file").
			Placeholder("App.xcodeproj").
			Value(&a.Project).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("project is required")
				}
				return nil
			}),
		w.targetField(targets, &a.Target),
		huh.NewSelect[models.GroupPolicy]().
			Title("When a group cannot be found").
			Options(
				huh.NewOption("Abort the run", models.PolicyAbort),
				huh.NewOption("Add the file without a group", models.PolicySkip),
			).
			Value(&a.OnUnknownGroup),
	}

	theme := w.theme.huhTheme()
	for _, f := range fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		form := huh.NewForm(huh.NewGroup(f)).
			WithTheme(theme).
			WithAccessible(false)
		if err := form.RunWithContext(ctx); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil, ErrCancelled
			}
			return nil, fmt.Errorf("wizard error: %w", err)
		}
	}
	a.Project = strings.TrimSpace(a.Project)
	return a, nil
}

func (w *wizardImpl) targetField(targets []string, value *string) huh.Field {
	if len(targets) == 0 {
		return huh.NewInput().
			Title("Target").
			Description("Native target whose Sources phase receives new files").
			Value(value)
	}
	if *value == "" {
		*value = targets[0]
	}
	opts := make([]huh.Option[string], len(targets))
	for i, t := range targets {
		opts[i] = huh.NewOption(t, t)
	}
	return huh.NewSelect[string]().
		Title("Target").
		Description("Native target whose Sources phase receives new files").
		Options(opts...).
		Value(value)
}
