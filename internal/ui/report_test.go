package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/glamour"

	"github.com/modu-ai/pbxpatch/internal/pbxproj"
	"github.com/modu-ai/pbxpatch/pkg/models"
)

func sampleResult() *pbxproj.Result {
	return &pbxproj.Result{
		Added: []pbxproj.Added{
			{
				File:      models.SourceFile{Name: "ScheduledWorkout.swift", Path: "Shared/ScheduledWorkout.swift", Group: "Shared"},
				FileRef:   "AAAA00000000000000000001",
				BuildFile: "AAAA00000000000000000002",
				Group:     "CDB1A7162EA3562600B13136",
			},
			{
				File:      models.SourceFile{Name: "Orphan.swift"},
				FileRef:   "AAAA00000000000000000003",
				BuildFile: "AAAA00000000000000000004",
			},
		},
		Skipped: []pbxproj.Skipped{
			{File: models.SourceFile{Name: "User.swift"}, Reason: "already in group Shared as CDB1A7172EA3562600B13136"},
		},
	}
}

func TestReporterResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		res     *pbxproj.Result
		written bool
		want    []string
	}{
		{
			name:    "written",
			res:     sampleResult(),
			written: true,
			want: []string{
				"+ ScheduledWorkout.swift  fileRef=AAAA00000000000000000001 buildFile=AAAA00000000000000000002 group=CDB1A7162EA3562600B13136",
				"+ Orphan.swift  fileRef=AAAA00000000000000000003 buildFile=AAAA00000000000000000004 group=-",
				"= User.swift  skipped: already in group Shared as CDB1A7172EA3562600B13136",
				"✓ added 2 file(s) to App.xcodeproj",
			},
		},
		{
			name: "dry run",
			res:  sampleResult(),
			want: []string{"dry run: 2 file(s) would be added to App.xcodeproj"},
		},
		{
			name:    "nothing to add",
			res:     &pbxproj.Result{Collisions: 2},
			written: true,
			want:    []string{"nothing to add to App.xcodeproj", "regenerated 2 colliding identifier(s)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			NewReporter(&buf, NewTheme(true)).Result("App.xcodeproj", tt.res, tt.written)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestReporterPlainWhenNotTerminal(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, NewTheme(false))
	r.Result("App.xcodeproj", sampleResult(), true)
	r.Diff("--- a/f\n+++ b/f\n@@ -1 +1,2 @@\n x\n+y\n")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("output to a buffer should carry no escape sequences:\n%q", buf.String())
	}
}

func TestReporterDiff(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, NewTheme(true))
	r.Diff("")
	if buf.Len() != 0 {
		t.Errorf("empty diff printed %q", buf.String())
	}
	diff := "--- a/project.pbxproj\n+++ b/project.pbxproj\n@@ -1,1 +1,2 @@\n a\n+b\n"
	r.Diff(diff)
	if buf.String() != diff {
		t.Errorf("Diff() = %q, want %q", buf.String(), diff)
	}
}

func TestReporterProblems(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, NewTheme(true))
	r.Problems("a/project.pbxproj", 38, nil)
	if !strings.Contains(buf.String(), "38 objects, no dangling references") {
		t.Errorf("clean output = %q", buf.String())
	}

	buf.Reset()
	r.Problems("a/project.pbxproj", 38, []pbxproj.Problem{
		{Record: "CDB1A6A52EA34E8F00B13136", Attr: "files", Ref: "AAAA00000000000000000001", Msg: "missing record"},
	})
	want := "CDB1A6A52EA34E8F00B13136.files -> AAAA00000000000000000001: missing record"
	if !strings.Contains(buf.String(), "1 problem(s)") || !strings.Contains(buf.String(), want) {
		t.Errorf("problem output = %q", buf.String())
	}
}

func TestReporterGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, NewTheme(true))
	r.Groups(nil)
	if !strings.Contains(buf.String(), "no named groups") {
		t.Errorf("empty groups output = %q", buf.String())
	}

	buf.Reset()
	r.Groups([]pbxproj.GroupEntry{
		{Name: "Shared", Path: "Shared", ID: "CDB1A7162EA3562600B13136", Children: 2, Pinned: true},
		{Name: "Products", ID: "CDB1A6AA2EA34E8F00B13136", Children: 2},
	})
	for _, w := range []string{"NAME", "Shared", "CDB1A7162EA3562600B13136", "yes", "Products"} {
		if !strings.Contains(buf.String(), w) {
			t.Errorf("groups table missing %q:\n%s", w, buf.String())
		}
	}
}

func TestReporterFailureAndNotice(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewReporter(&buf, NewTheme(true))
	r.Failure(errors.New("boom"))
	r.Notice("wrote %s", "pbxpatch.yaml")
	if got, want := buf.String(), "error: boom\n• wrote pbxpatch.yaml\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestReporterDiffKeepsTabs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewReporter(&buf, NewTheme(false)).Diff("@@ -1,1 +1,2 @@\n \t\tA,\n+\t\tB,\n")
	if !strings.Contains(buf.String(), "+\t\tB,") {
		t.Errorf("tabs were rewritten: %q", buf.String())
	}
}

func TestRenderDiff(t *testing.T) {
	t.Parallel()

	diff := "--- a/project.pbxproj\n+++ b/project.pbxproj\n@@ -1,1 +1,2 @@\n a\n+ScheduledWorkout.swift\n"
	out, err := renderDiff(diff, glamour.WithStandardStyle("notty"))
	if err != nil {
		t.Fatalf("renderDiff() error: %v", err)
	}
	if !strings.Contains(out, "+ScheduledWorkout.swift") || !strings.Contains(out, "@@ -1,1 +1,2 @@") {
		t.Errorf("rendered diff lost lines:\n%s", out)
	}
}
