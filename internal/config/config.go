package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/ragfw/ragfw/internal/graph"
	"gopkg.in/yaml.v3"
)

// ErrUnknownScanner is returned for scanner entries with an unsupported type.
var ErrUnknownScanner = errors.New("unknown scanner type")

var (
	errNoLocal     = errors.New("no local config")
	errNoGlobal    = errors.New("no global config")
	errNoConfigDir = errors.New("no config dir")
)

// FileConfig is the on-disk YAML configuration shape for ragfw.
type FileConfig struct {
	Scanners   []ScannerConfig   `yaml:"scanners" validate:"dive"`
	Policies   []RuleConfig      `yaml:"policies" validate:"dive"`
	Graph      *graph.Schema     `yaml:"graph"`
	Audit      *AuditConfig      `yaml:"audit"`
	Provenance *ProvenanceConfig `yaml:"provenance"`
	Workers    *int              `yaml:"workers" validate:"omitempty,gte=0"`
	NoColor    *bool             `yaml:"no_color"`
}

// ScannerConfig holds constructor parameters; which fields apply depends on
// Type.
type ScannerConfig struct {
	Type string `yaml:"type" validate:"required"`

	// regex_injection
	Patterns []string `yaml:"patterns"`
	// pii
	Enabled *bool `yaml:"enabled"`
	// secrets
	ExtraPatterns []string `yaml:"extra_patterns"`
	// encoded
	MinLen         *int     `yaml:"min_len" validate:"omitempty,gte=0"`
	RatioThreshold *float64 `yaml:"ratio_threshold" validate:"omitempty,gte=0,lte=1"`
	// url
	Allowlist []string `yaml:"allowlist"`
	Denylist  []string `yaml:"denylist"`
	// conflict
	StaleDays *float64 `yaml:"stale_days" validate:"omitempty,gte=0"`
}

type RuleConfig struct {
	Name   string             `yaml:"name" validate:"required"`
	Match  map[string]any     `yaml:"match"`
	Action string             `yaml:"action" validate:"required,oneof=allow deny rerank"`
	Weight map[string]float64 `yaml:"weight" validate:"omitempty,dive,keys,oneof=recency provenance relevance,endkeys"`
}

// AuditConfig selects the audit sink. RedisAddr takes precedence over Path.
type AuditConfig struct {
	Path      *string `yaml:"path"`
	RedisAddr *string `yaml:"redis_addr"`
	RedisKey  *string `yaml:"redis_key"`
	MaxLen    *int64  `yaml:"max_len" validate:"omitempty,gte=0"`
	Disabled  *bool   `yaml:"disabled"`
}

type ProvenanceConfig struct {
	Backend *string `yaml:"backend" validate:"omitempty,oneof=sqlite badger"`
	Path    *string `yaml:"path"`
}

var validate = validator.New()

// Validate checks scanner types then field constraints.
func (fc FileConfig) Validate() error {
	for i, s := range fc.Scanners {
		if !knownScanner(s.Type) {
			return fmt.Errorf("scanners[%d]: %w %q", i, ErrUnknownScanner, s.Type)
		}
	}
	if err := validate.Struct(fc); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a project-local config file in the given root.
// It supports .ragfw.yml/.yaml and ragfw.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".ragfw.yml", ".ragfw.yaml", "ragfw.yml", "ragfw.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errNoLocal
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errNoConfigDir
	}
	p := filepath.Join(base, "ragfw", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errNoGlobal
}

// Resolve loads path when set, otherwise the local config in dir, then the
// global config. With no file at all the zero FileConfig is returned, which
// builds the default scanners and no rules.
func Resolve(path, dir string) (FileConfig, error) {
	if path != "" {
		return LoadFile(path)
	}
	if cfg, err := LoadLocal(dir); err == nil {
		return cfg, nil
	} else if !isNotFound(err) {
		return cfg, err
	}
	if cfg, err := LoadGlobal(); err == nil {
		return cfg, nil
	} else if !isNotFound(err) {
		return cfg, err
	}
	return FileConfig{}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, errNoLocal) || errors.Is(err, errNoGlobal) || errors.Is(err, errNoConfigDir)
}

// AuditPath returns the configured audit file, or "" for the default.
func (fc FileConfig) AuditPath() string {
	if fc.Audit == nil || fc.Audit.Path == nil {
		return ""
	}
	return *fc.Audit.Path
}

// ProvenanceBackend returns backend and path with sqlite/prov.sqlite defaults.
func (fc FileConfig) ProvenanceBackend() (string, string) {
	backend, path := "sqlite", "prov.sqlite"
	if fc.Provenance != nil {
		if fc.Provenance.Backend != nil && *fc.Provenance.Backend != "" {
			backend = *fc.Provenance.Backend
		}
		if fc.Provenance.Path != nil && *fc.Provenance.Path != "" {
			path = *fc.Provenance.Path
		}
	}
	return backend, path
}

func (fc FileConfig) WorkerCount() int {
	if fc.Workers == nil {
		return 0
	}
	return *fc.Workers
}
