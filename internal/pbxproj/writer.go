package pbxproj

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ManifestName is the file inside an .xcodeproj bundle that holds the manifest.
const ManifestName = "project.pbxproj"

// ErrProjectNotFound is returned when no manifest can be located.
var ErrProjectNotFound = errors.New("xcode project not found")

// ResolvePath maps a user-supplied location to a manifest path. An .xcodeproj
// directory resolves to the manifest inside it. An empty path searches dir for
// exactly one .xcodeproj bundle.
func ResolvePath(dir, p string) (string, error) {
	if p == "" {
		matches, err := filepath.Glob(filepath.Join(dir, "*.xcodeproj"))
		if err != nil {
			return "", fmt.Errorf("search for project: %w", err)
		}
		switch len(matches) {
		case 0:
			return "", fmt.Errorf("%w in %s", ErrProjectNotFound, dir)
		case 1:
			p = matches[0]
		default:
			names := make([]string, len(matches))
			for i, m := range matches {
				names[i] = filepath.Base(m)
			}
			return "", fmt.Errorf("%w: several projects in %s (%s); pass --project", ErrProjectNotFound, dir, strings.Join(names, ", "))
		}
	} else if !filepath.IsAbs(p) {
		p = filepath.Join(dir, p)
	}

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrProjectNotFound, p)
		}
		return "", fmt.Errorf("stat project: %w", err)
	}
	if info.IsDir() {
		p = filepath.Join(p, ManifestName)
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%w: %s", ErrProjectNotFound, p)
		}
	}
	return filepath.Clean(p), nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// WriteFile replaces path with data atomically using a temp file in the same
// directory and os.Rename. An existing file keeps its mode; perm applies to a
// new one.
func WriteFile(path string, data []byte, perm fs.FileMode) error {
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".pbxpatch-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}
