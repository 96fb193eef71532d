package config

import (
	"maps"
	"slices"

	"github.com/modu-ai/pbxpatch/pkg/models"
)

// Config is the contents of pbxpatch.yaml.
type Config struct {
	// Project is the .xcodeproj bundle or project.pbxproj path, relative to
	// the config file's directory.
	Project string `yaml:"project,omitempty"`

	// Target names the native target whose Sources phase receives new files.
	Target string `yaml:"target,omitempty"`

	OnUnknownGroup models.GroupPolicy `yaml:"on_unknown_group,omitempty"`

	// Groups pins logical group names to PBXGroup identifiers.
	Groups map[string]string `yaml:"groups,omitempty"`

	// SourcesPhase pins the PBXSourcesBuildPhase identifier.
	SourcesPhase string `yaml:"sources_phase,omitempty"`

	// MaxIDAttempts bounds identifier regeneration on collision.
	MaxIDAttempts int `yaml:"max_id_attempts,omitempty"`

	Files []models.SourceFile `yaml:"files,omitempty"`
}

// GroupNames returns the pinned group names, sorted.
func (c *Config) GroupNames() []string {
	return slices.Sorted(maps.Keys(c.Groups))
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Groups = maps.Clone(c.Groups)
	out.Files = slices.Clone(c.Files)
	return &out
}
