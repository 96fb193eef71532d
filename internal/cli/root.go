package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/modu-ai/pbxpatch/internal/ui"
	"github.com/modu-ai/pbxpatch/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "pbxpatch",
	Short: "Add source files to an Xcode project manifest",
	Long: `pbxpatch inserts source files into an Xcode project.pbxproj.

Each file gets a PBXFileReference, a PBXBuildFile, membership in its
group's children and an entry in the target's Sources build phase.
Everything else in the manifest is left byte-for-byte unchanged, and the
result is checked for dangling references before it is written.

Settings are read from pbxpatch.yaml, then PBXPATCH_* variables from the
environment or .env, then command-line flags.`,
	Version:           version.GetVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: applyGlobalFlags,
}

// @MX:ANCHOR: [AUTO] Execute is the main entry point for the pbxpatch CLI
// @MX:REASON: [AUTO] fan_in=2, called from cmd/pbxpatch/main.go and cli tests
// Execute initializes dependencies, runs the root command and prints a
// single failure line on error.
func Execute() error {
	InitDependencies()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		ui.NewReporter(rootCmd.ErrOrStderr(), deps.Theme).Failure(err)
	}
	return err
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("pbxpatch %s\n", version.GetVersion()))

	pf := rootCmd.PersistentFlags()
	pf.String("project", "", "Path to the .xcodeproj bundle or project.pbxproj (default: the only .xcodeproj in the working directory)")
	pf.StringP("config", "c", "", "Config file (default: ./pbxpatch.yaml when present)")
	pf.Bool("no-color", false, "Disable styled output")
	pf.Bool("verbose", false, "Log debug output to stderr")
}

// applyGlobalFlags adjusts the dependencies for --verbose and --no-color.
func applyGlobalFlags(cmd *cobra.Command, _ []string) error {
	if deps == nil {
		return errors.New("dependencies not initialized")
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		deps.SetVerbose(cmd.ErrOrStderr())
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		deps.Theme.NoColor = true
	}
	return nil
}
