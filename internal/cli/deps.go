// Package cli provides the Cobra command tree and dependency injection
// wiring for pbxpatch. This file defines the Dependencies struct
// (Composition Root) that wires the manifest, config and UI packages.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/modu-ai/pbxpatch/internal/config"
	"github.com/modu-ai/pbxpatch/internal/pbxproj"
	"github.com/modu-ai/pbxpatch/internal/ui"
)

// Dependencies holds every service used by CLI commands.
// This is the Composition Root: the only place where concrete types
// are instantiated and wired together.
type Dependencies struct {
	Config   *config.Manager
	Logger   *slog.Logger
	Theme    *ui.Theme
	Headless *ui.HeadlessManager
	Confirm  ui.Confirmer
	Wizard   ui.Wizard
	Progress ui.Progress

	// IDs overrides the identifier source; nil means crypto/rand.
	IDs pbxproj.IDSource
}

// deps is the global dependencies instance, initialized by InitDependencies.
var deps *Dependencies

// @MX:ANCHOR: [AUTO] InitDependencies is the Composition Root that wires all modules
// @MX:REASON: [AUTO] fan_in=3, called from root.go, cli tests through newTestDeps
// InitDependencies creates and wires all dependencies with a discarding
// logger. --verbose and --no-color adjust them in the root pre-run hook.
func InitDependencies() {
	deps = newDependencies(slog.New(slog.NewTextHandler(io.Discard, nil)), config.NoColorFromEnv(), os.Stderr)
}

func newDependencies(logger *slog.Logger, noColor bool, progressOut io.Writer) *Dependencies {
	theme := ui.NewTheme(noColor)
	hm := ui.NewHeadlessManager()
	return &Dependencies{
		Config:   config.NewManager(logger),
		Logger:   logger,
		Theme:    theme,
		Headless: hm,
		Confirm:  ui.NewConfirm(theme, hm),
		Wizard:   ui.NewWizard(theme, hm),
		Progress: ui.NewProgress(theme, hm, progressOut),
	}
}

// GetDeps returns the current Dependencies instance.
// Returns nil if InitDependencies has not been called.
func GetDeps() *Dependencies {
	return deps
}

// SetDeps replaces the global dependencies (used for testing).
func SetDeps(d *Dependencies) {
	deps = d
}

// SetVerbose routes debug logs to w and rebuilds the services that log.
func (d *Dependencies) SetVerbose(w io.Writer) {
	d.Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	d.Config = config.NewManager(d.Logger)
}
