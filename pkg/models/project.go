package models

import (
	"path"
	"strings"
)

// SourceFile describes one source file to insert into a project manifest.
// It exists only for the duration of a single patch run.
type SourceFile struct {
	Name  string `yaml:"name" json:"name"`
	Path  string `yaml:"path" json:"path"`
	Group string `yaml:"group" json:"group"`
}

// WithDefaults fills an empty Name from the base of Path and an empty Group
// from the first directory component of Path.
func (f SourceFile) WithDefaults() SourceFile {
	p := strings.Trim(path.Clean(strings.ReplaceAll(f.Path, "\\", "/")), "/")
	if p == "." {
		p = ""
	}
	if f.Name == "" && p != "" {
		f.Name = path.Base(p)
	}
	if f.Group == "" && strings.Contains(p, "/") {
		f.Group = p[:strings.Index(p, "/")]
	}
	return f
}

// Ext returns the lower-cased extension of Name, including the dot.
func (f SourceFile) Ext() string {
	return strings.ToLower(path.Ext(f.Name))
}
