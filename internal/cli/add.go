package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modu-ai/pbxpatch/internal/config"
	"github.com/modu-ai/pbxpatch/internal/merge"
	"github.com/modu-ai/pbxpatch/internal/pbxproj"
	"github.com/modu-ai/pbxpatch/internal/ui"
	"github.com/modu-ai/pbxpatch/pkg/models"
)

var addCmd = &cobra.Command{
	Use:   "add [path[:group]...]",
	Short: "Add source files to the project",
	Long: `Add source files to the target's Sources build phase and to their groups.

Each argument is a path relative to the project, optionally followed by
":group". Without a group the first path component is used, so
"Shared/ScheduledWorkout.swift" goes into the Shared group. Without
arguments the files listed in pbxpatch.yaml are added.

Files already present in their group are skipped, so re-running is safe.

Examples:
  pbxpatch add Shared/ScheduledWorkout.swift
  pbxpatch add Views/Detail.swift:CrossfitTracker --dry-run
  pbxpatch add --on-unknown-group skip --yes`,
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().String("group", "", "Group for files that do not name one")
	addCmd.Flags().String("target", "", "Native target whose Sources phase receives the files")
	addCmd.Flags().String("on-unknown-group", "", "What to do when a group is missing: abort or skip")
	addCmd.Flags().Bool("dry-run", false, "Print the diff without writing the manifest")
	addCmd.Flags().BoolP("yes", "y", false, "Write without asking for confirmation")
	addCmd.Flags().Bool("json", false, "Print the result as JSON")
}

// addOutput is the --json shape of an add run.
type addOutput struct {
	Project string `json:"project"`
	Written bool   `json:"written"`
	*pbxproj.Result
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	if err := applyAddFlags(cmd, s.cfg); err != nil {
		return err
	}

	defaultGroup, _ := cmd.Flags().GetString("group")
	files, err := sourceFiles(args, s.cfg.Files, defaultGroup)
	if err != nil {
		return err
	}

	res, err := patch(cmd, s, files)
	if err != nil {
		return fmt.Errorf("add to %s: %w", s.displayPath(), err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	asJSON, _ := cmd.Flags().GetBool("json")
	written := false

	if !dryRun && res.Changed() {
		yes, _ := cmd.Flags().GetBool("yes")
		ok, err := confirmWrite(yes || asJSON, s, res)
		if err != nil {
			return err
		}
		if !ok {
			s.report.Notice("cancelled, %s is unchanged", s.displayPath())
			return nil
		}
		if err := pbxproj.WriteFile(s.manifest, res.Data, 0o644); err != nil {
			res.Stages = append(res.Stages, pbxproj.StageAborted)
			return fmt.Errorf("write %s: %w", s.displayPath(), err)
		}
		res.Stages = append(res.Stages, pbxproj.StagePersisted)
		deps.Logger.Info("manifest written", "path", s.manifest, "added", len(res.Added), "stage", pbxproj.StagePersisted.String())
		written = true
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(addOutput{Project: s.manifest, Written: written, Result: res})
	}

	if dryRun && res.Changed() {
		s.report.Diff(merge.UnifiedDiff(s.displayPath(), s.doc.Bytes(), res.Data))
		inserted, _ := merge.Stat(merge.DiffLines(
			strings.Split(string(s.doc.Bytes()), "\n"),
			strings.Split(string(res.Data), "\n"),
		))
		s.report.Notice("%d line(s) would be inserted", inserted)
	}
	s.report.Result(s.displayPath(), res, written)
	return nil
}

// applyAddFlags overrides config values with explicitly set flags.
func applyAddFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("target") {
		cfg.Target, _ = cmd.Flags().GetString("target")
	}
	if cmd.Flags().Changed("on-unknown-group") {
		v, _ := cmd.Flags().GetString("on-unknown-group")
		policy := models.GroupPolicy(v)
		if !policy.IsValid() {
			return fmt.Errorf("--on-unknown-group %q: %w (valid: %v)", v, config.ErrInvalidGroupPolicy, models.ValidGroupPolicies())
		}
		cfg.OnUnknownGroup = policy
	}
	return nil
}

// sourceFiles turns path[:group] arguments into descriptors, falling back to
// the config file list. defaultGroup fills descriptors that name no group.
func sourceFiles(args []string, configured []models.SourceFile, defaultGroup string) ([]models.SourceFile, error) {
	var files []models.SourceFile
	if len(args) > 0 {
		for _, arg := range args {
			f, err := parseFileArg(arg)
			if err != nil {
				return nil, err
			}
			files = append(files, f)
		}
	} else {
		files = append(files, configured...)
	}
	if len(files) == 0 {
		return nil, errors.New("no source files given: pass paths or list them under files: in pbxpatch.yaml")
	}
	if defaultGroup != "" {
		for i := range files {
			if files[i].Group == "" {
				files[i].Group = defaultGroup
			}
		}
	}
	return files, nil
}

// parseFileArg splits "path[:group]". The group is taken after the last
// colon so paths stay free to contain one.
func parseFileArg(arg string) (models.SourceFile, error) {
	path, group := arg, ""
	if i := strings.LastIndex(arg, ":"); i >= 0 {
		path, group = arg[:i], arg[i+1:]
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return models.SourceFile{}, fmt.Errorf("invalid file argument %q: empty path", arg)
	}
	return models.SourceFile{Path: path, Group: strings.TrimSpace(group)}, nil
}

// patch runs the patcher with a progress bar when a terminal is attached.
func patch(cmd *cobra.Command, s *session, files []models.SourceFile) (*pbxproj.Result, error) {
	opts := pbxproj.Options{
		Target:      s.cfg.Target,
		Policy:      s.cfg.OnUnknownGroup,
		Lookup:      lookupOptions(s.cfg),
		IDs:         deps.IDs,
		MaxAttempts: s.cfg.MaxIDAttempts,
		Logger:      deps.Logger,
	}
	if !deps.Headless.IsHeadless() {
		bar := deps.Progress.Start(pbxproj.StageLoaded.String(), int(pbxproj.StageBuildPhase))
		defer bar.Done()
		opts.OnStage = func(st pbxproj.Stage) {
			bar.SetTitle(st.String())
			bar.Increment(1)
		}
	}
	return pbxproj.NewPatcher(opts).Apply(cmd.Context(), s.doc, files)
}

// confirmWrite asks before writing unless skip is set.
func confirmWrite(skip bool, s *session, res *pbxproj.Result) (bool, error) {
	if skip {
		return true, nil
	}
	names := make([]string, len(res.Added))
	for i, a := range res.Added {
		names[i] = a.File.Name
	}
	ok, err := deps.Confirm.Confirm(
		fmt.Sprintf("Add %d file(s) to %s?", len(res.Added), s.displayPath()),
		strings.Join(names, ", "),
	)
	if errors.Is(err, ui.ErrCancelled) {
		return false, nil
	}
	return ok, err
}
