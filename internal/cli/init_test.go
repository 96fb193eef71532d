package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/modu-ai/pbxpatch/internal/config"
	"github.com/modu-ai/pbxpatch/internal/defs"
	"github.com/modu-ai/pbxpatch/pkg/models"
)

func TestInitNonInteractive(t *testing.T) {
	dir := setupProject(t)

	out, err := runCLI(t, "init", "--non-interactive")
	if err != nil {
		t.Fatalf("init error: %v", err)
	}
	if !strings.Contains(out, "wrote ") || !strings.Contains(out, defs.ConfigFile) {
		t.Errorf("unexpected output:\n%s", out)
	}

	cfg, err := config.NewLoader(nil).Load(dir, "")
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	want := config.NewDefaultConfig()
	want.Project = projectBundle
	want.Target = appTarget
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if _, err := runCLI(t, "init", "--non-interactive"); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second init error = %v, want already exists", err)
	}

	if _, err := runCLI(t, "init", "--non-interactive", "--force", "--target", watchTarget, "--on-unknown-group", "skip"); err != nil {
		t.Fatalf("init --force error: %v", err)
	}
	cfg, err = config.NewLoader(nil).Load(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Target != watchTarget || cfg.OnUnknownGroup != models.PolicySkip {
		t.Errorf("forced init wrote %+v", cfg)
	}
}

func TestInitWithoutProject(t *testing.T) {
	dir := setupProject(t)
	if err := os.RemoveAll(filepath.Join(dir, projectBundle)); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "init", "--non-interactive"); err == nil {
		t.Error("headless init without a project should fail")
	}
	if _, err := os.Stat(filepath.Join(dir, defs.ConfigFile)); !errors.Is(err, os.ErrNotExist) {
		t.Error("nothing should be written on failure")
	}
}

func TestInitBadPolicy(t *testing.T) {
	setupProject(t)
	_, err := runCLI(t, "init", "--non-interactive", "--on-unknown-group", "ignore")
	if !errors.Is(err, config.ErrInvalidGroupPolicy) {
		t.Errorf("error = %v, want ErrInvalidGroupPolicy", err)
	}
}
