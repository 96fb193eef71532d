package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/modu-ai/pbxpatch/internal/defs"
)

// Loader reads configuration from a YAML file.
// It is thread-safe via sync.RWMutex.
type Loader struct {
	mu     sync.RWMutex
	source string
	logger *slog.Logger
}

// NewLoader creates a new Loader instance. A nil logger discards output.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{logger: logger}
}

// Load reads the config file at path, or defs.ConfigFile in dir when path is
// empty, and returns it with defaults applied. A missing default file yields
// defaults; a missing explicit file is ErrConfigNotFound.
func (l *Loader) Load(dir, path string) (*Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.source = ""
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, defs.ConfigFile)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	cfg := NewDefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			l.logger.Debug("config file not found, using defaults", "path", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	if err := decodeYAML(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %v", filepath.Base(path), ErrInvalidYAML, err)
	}
	applyDefaults(cfg)
	l.source = path
	l.logger.Debug("config loaded", "path", path, "files", len(cfg.Files), "pins", len(cfg.Groups))
	return cfg, nil
}

// Source returns the path of the last file loaded, or "" when defaults were used.
func (l *Loader) Source() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.source
}

// decodeYAML unmarshals data into target, rejecting unknown keys so that a
// misspelled option does not silently fall back to its default.
func decodeYAML(data []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// envLookup resolves a variable from the process environment first and then
// from the values read out of a dotenv file.
type envLookup struct {
	dotenv map[string]string
}

// readDotenv reads dir/.env without touching the process environment.
func readDotenv(dir string, logger *slog.Logger) envLookup {
	path := filepath.Join(dir, defs.EnvFile)
	values, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to read dotenv file, ignoring it", "path", path, "error", err)
		}
		return envLookup{}
	}
	logger.Debug("dotenv loaded", "path", path, "keys", len(values))
	return envLookup{dotenv: values}
}

func (e envLookup) get(key string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return e.dotenv[key]
}
