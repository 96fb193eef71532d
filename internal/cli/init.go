package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modu-ai/pbxpatch/internal/config"
	"github.com/modu-ai/pbxpatch/internal/defs"
	"github.com/modu-ai/pbxpatch/internal/pbxproj"
	"github.com/modu-ai/pbxpatch/internal/ui"
	"github.com/modu-ai/pbxpatch/pkg/models"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter pbxpatch.yaml",
	Long: `Write a starter pbxpatch.yaml for the Xcode project in the working directory.

The project, target and unknown-group policy are asked for interactively.
Without a terminal, or with --non-interactive, the detected project, the
first target and the abort policy are used unless flags say otherwise.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("target", "", "Target to record (default: first native target)")
	initCmd.Flags().String("on-unknown-group", string(config.DefaultOnUnknownGroup), "Unknown group policy to record: abort or skip")
	initCmd.Flags().Bool("non-interactive", false, "Skip the wizard; use flags and detected values")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, _ []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	out, _ := cmd.Flags().GetString("config")
	if out == "" {
		out = defs.ConfigFile
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(dir, out)
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(out); err == nil && !force {
		return fmt.Errorf("%s already exists; pass --force to overwrite", out)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}

	if nonInteractive, _ := cmd.Flags().GetBool("non-interactive"); nonInteractive {
		deps.Headless.ForceHeadless(true)
	}

	defaults, targets, err := detectInitDefaults(cmd, filepath.Dir(out))
	if err != nil && deps.Headless.IsHeadless() {
		return err
	}
	if err != nil {
		deps.Logger.Debug("project detection failed", "error", err)
	}
	deps.Headless.SetDefaults(defaults)

	answers, err := deps.Wizard.Run(cmd.Context(), targets)
	if errors.Is(err, ui.ErrCancelled) {
		ui.NewReporter(cmd.OutOrStdout(), deps.Theme).Notice("cancelled, nothing written")
		return nil
	}
	if err != nil {
		return err
	}

	cfg := config.NewDefaultConfig()
	cfg.Project = answers.Project
	cfg.Target = answers.Target
	cfg.OnUnknownGroup = answers.OnUnknownGroup
	if err := deps.Config.Save(out, cfg); err != nil {
		return err
	}
	ui.NewReporter(cmd.OutOrStdout(), deps.Theme).Notice("wrote %s", out)
	return nil
}

// detectInitDefaults finds the project and its targets and returns the
// headless answers. The project path is made relative to base, the
// directory the config file is written to.
func detectInitDefaults(cmd *cobra.Command, base string) (map[string]string, []string, error) {
	policy, _ := cmd.Flags().GetString("on-unknown-group")
	if !models.GroupPolicy(policy).IsValid() {
		return nil, nil, fmt.Errorf("--on-unknown-group %q: %w", policy, config.ErrInvalidGroupPolicy)
	}
	target, _ := cmd.Flags().GetString("target")
	defaults := map[string]string{
		ui.DefaultKeyOnUnknownGroup: policy,
		ui.DefaultKeyTarget:         target,
	}

	dir, err := os.Getwd()
	if err != nil {
		return defaults, nil, fmt.Errorf("get working directory: %w", err)
	}
	p, _ := cmd.Flags().GetString("project")
	manifest, err := pbxproj.ResolvePath(dir, p)
	if err != nil {
		return defaults, nil, err
	}
	doc, err := pbxproj.Load(manifest)
	if err != nil {
		return defaults, nil, err
	}
	lookup, err := pbxproj.BuildLookup(doc, pbxproj.LookupOptions{})
	if err != nil {
		return defaults, nil, err
	}

	bundle := filepath.Dir(manifest)
	if filepath.Ext(bundle) != defs.ProjectBundleExt {
		bundle = manifest
	}
	if rel, err := filepath.Rel(base, bundle); err == nil {
		bundle = rel
	}
	defaults[ui.DefaultKeyProject] = bundle

	targets := lookup.TargetNames()
	if target == "" && len(targets) > 0 {
		defaults[ui.DefaultKeyTarget] = targets[0]
	}
	return defaults, targets, nil
}
