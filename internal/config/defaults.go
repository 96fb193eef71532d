package config

import (
	"github.com/modu-ai/pbxpatch/pkg/models"
)

// Default value constants.
const (
	DefaultOnUnknownGroup = models.PolicyAbort
	DefaultMaxIDAttempts  = 64
)

// NewDefaultConfig returns a Config with all fields set to compiled defaults.
func NewDefaultConfig() *Config {
	return &Config{
		OnUnknownGroup: DefaultOnUnknownGroup,
		MaxIDAttempts:  DefaultMaxIDAttempts,
		Groups:         map[string]string{},
	}
}

// applyDefaults fills zero values left by a partial file.
func applyDefaults(cfg *Config) {
	if cfg.OnUnknownGroup == "" {
		cfg.OnUnknownGroup = DefaultOnUnknownGroup
	}
	if cfg.MaxIDAttempts == 0 {
		cfg.MaxIDAttempts = DefaultMaxIDAttempts
	}
	if cfg.Groups == nil {
		cfg.Groups = map[string]string{}
	}
}
