package pbxproj

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func makeProject(t *testing.T, dir, name string) string {
	t.Helper()
	bundle := filepath.Join(dir, name)
	if err := os.MkdirAll(bundle, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(bundle, ManifestName)
	if err := os.WriteFile(manifest, readFixture(t), 0o644); err != nil {
		t.Fatal(err)
	}
	return manifest
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	manifest := makeProject(t, dir, "CrossfitTracker.xcodeproj")

	tests := []struct {
		name string
		in   string
	}{
		{"search working directory", ""},
		{"relative bundle", "CrossfitTracker.xcodeproj"},
		{"absolute bundle", filepath.Join(dir, "CrossfitTracker.xcodeproj")},
		{"manifest file", filepath.Join("CrossfitTracker.xcodeproj", ManifestName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ResolvePath(dir, tt.in)
			if err != nil {
				t.Fatalf("ResolvePath(%q) error: %v", tt.in, err)
			}
			if got != manifest {
				t.Errorf("ResolvePath(%q) = %s, want %s", tt.in, got, manifest)
			}
		})
	}
}

func TestResolvePathErrors(t *testing.T) {
	t.Parallel()

	empty := t.TempDir()
	if _, err := ResolvePath(empty, ""); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("empty dir: error = %v, want ErrProjectNotFound", err)
	}
	if _, err := ResolvePath(empty, "Missing.xcodeproj"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("missing bundle: error = %v, want ErrProjectNotFound", err)
	}

	bare := t.TempDir()
	if err := os.MkdirAll(filepath.Join(bare, "Bare.xcodeproj"), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := ResolvePath(bare, "Bare.xcodeproj"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("bundle without manifest: error = %v, want ErrProjectNotFound", err)
	}

	two := t.TempDir()
	makeProject(t, two, "A.xcodeproj")
	makeProject(t, two, "B.xcodeproj")
	if _, err := ResolvePath(two, ""); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("two bundles: error = %v, want ErrProjectNotFound", err)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	doc, err := Load(makeProject(t, dir, "CrossfitTracker.xcodeproj"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if doc.Len() != fixtureObjects {
		t.Errorf("Len() = %d, want %d", doc.Len(), fixtureObjects)
	}

	bad := filepath.Join(dir, "broken.pbxproj")
	if err := os.WriteFile(bad, []byte("{ objects = { "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.Is(err, ErrSyntax) {
		t.Errorf("Load(broken) error = %v, want ErrSyntax", err)
	}
	if _, err := Load(filepath.Join(dir, "absent.pbxproj")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(absent) error = %v, want os.ErrNotExist", err)
	}
}

func TestWriteFileKeepsMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, []byte("new"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want new", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the manifest", len(entries))
	}
}

func TestWriteFileNew(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ManifestName)
	if err := WriteFile(path, []byte("data"), 0o640); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("mode = %v, want 0640", info.Mode().Perm())
	}
}

func TestWriteFileMissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", ManifestName)
	if err := WriteFile(path, []byte("data"), 0o644); err == nil {
		t.Error("WriteFile() expected error for missing directory")
	}
}
