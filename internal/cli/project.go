package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modu-ai/pbxpatch/internal/config"
	"github.com/modu-ai/pbxpatch/internal/pbxproj"
	"github.com/modu-ai/pbxpatch/internal/ui"
)

// session is the per-command state shared by the manifest commands.
type session struct {
	dir      string
	cfg      *config.Config
	manifest string
	doc      *pbxproj.Document
	report   *ui.Reporter
}

// openSession loads the config, applies --project and parses the manifest.
func openSession(cmd *cobra.Command) (*session, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := deps.Config.Load(dir, path)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("project"); p != "" {
		cfg.Project = p
	}

	manifest, err := pbxproj.ResolvePath(dir, cfg.Project)
	if err != nil {
		return nil, err
	}
	doc, err := pbxproj.Load(manifest)
	if err != nil {
		return nil, err
	}
	deps.Logger.Debug("manifest loaded", "path", manifest, "objects", doc.Len(), "config", deps.Config.Source())

	return &session{
		dir:      dir,
		cfg:      cfg,
		manifest: manifest,
		doc:      doc,
		report:   ui.NewReporter(cmd.OutOrStdout(), deps.Theme),
	}, nil
}

// displayPath shortens the manifest path relative to the working directory.
func (s *session) displayPath() string {
	if rel, err := filepath.Rel(s.dir, s.manifest); err == nil && !filepath.IsAbs(rel) && rel != "" && rel[0] != '.' {
		return rel
	}
	return s.manifest
}

// lookupOptions converts the config pins into pbxproj lookup options.
func lookupOptions(cfg *config.Config) pbxproj.LookupOptions {
	opts := pbxproj.LookupOptions{SourcesPhase: pbxproj.ID(cfg.SourcesPhase)}
	if len(cfg.Groups) > 0 {
		opts.GroupPins = make(map[string]pbxproj.ID, len(cfg.Groups))
		for name, id := range cfg.Groups {
			opts.GroupPins[name] = pbxproj.ID(id)
		}
	}
	return opts
}
