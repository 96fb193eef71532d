package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/modu-ai/pbxpatch/internal/defs"
	"github.com/modu-ai/pbxpatch/pkg/models"
)

// managerState represents the lifecycle state of the Manager.
type managerState int

const (
	stateUninitialized managerState = iota
	stateInitialized
)

// @MX:ANCHOR: [AUTO] Manager is the entry point for all config access. Call Load() before use.
// @MX:REASON: [AUTO] fan_in=4, used by every CLI command through Dependencies
// Manager provides thread-safe configuration management.
// It must be initialized via Load() before use.
type Manager struct {
	mu     sync.RWMutex
	config *Config
	state  managerState
	loader *Loader
	logger *slog.Logger
}

// NewManager creates a new Manager in uninitialized state.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		loader: NewLoader(logger),
		state:  stateUninitialized,
		logger: logger,
	}
}

// Load reads the config file (path, or pbxpatch.yaml in dir), merges
// environment overrides from the process and dir/.env, and validates the
// result. Relative paths inside the file resolve against the file's directory.
func (m *Manager) Load(dir, path string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg, err := m.loader.Load(dir, path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	base := dir
	if src := m.loader.Source(); src != "" {
		base = filepath.Dir(src)
	}
	if cfg.Project != "" && !filepath.IsAbs(cfg.Project) {
		cfg.Project = filepath.Join(base, cfg.Project)
	}

	// Environment overrides file values; flags are applied later by the caller.
	applyEnvOverrides(cfg, readDotenv(dir, m.logger), dir)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	m.config = cfg
	m.state = stateInitialized
	return cfg, nil
}

// Get returns the current configuration, or nil before Load().
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Loaded reports whether Load() has succeeded.
func (m *Manager) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == stateInitialized
}

// Source returns the config file that was loaded, or "" for defaults.
func (m *Manager) Source() string {
	return m.loader.Source()
}

// Save writes cfg to path atomically. It does not require Load().
func (m *Manager) Save(path string, cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := atomicWrite(path, data); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	m.logger.Debug("config saved", "path", path)
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables have higher priority than file-based values.
func applyEnvOverrides(cfg *Config, env envLookup, dir string) {
	if project := env.get(defs.EnvProject); project != "" {
		if !filepath.IsAbs(project) {
			project = filepath.Join(dir, project)
		}
		cfg.Project = project
	}
	if target := env.get(defs.EnvTarget); target != "" {
		cfg.Target = target
	}
	if policy := env.get(defs.EnvOnUnknownGroup); policy != "" {
		cfg.OnUnknownGroup = models.GroupPolicy(policy)
	}
}

// NoColorFromEnv reports whether PBXPATCH_NO_COLOR or NO_COLOR asks for plain output.
func NoColorFromEnv() bool {
	if v := os.Getenv(defs.EnvNoColor); v == "true" || v == "1" {
		return true
	}
	return os.Getenv("NO_COLOR") != ""
}

// atomicWrite writes data to a file atomically using temp file + os.Rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pbxpatch-config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // cleanup on error path

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return os.Rename(tmpName, path)
}
