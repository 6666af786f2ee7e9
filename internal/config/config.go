package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/afonsov/gohff/internal/cluster"
)

// ErrInvalidConfig indicates a hff.yaml that cannot drive the pipeline.
var ErrInvalidConfig = errors.New("invalid configuration")

// ClusterBox is an extra or overriding registry entry in hff.yaml.
type ClusterBox struct {
	Name        string `yaml:"name"`
	cluster.Box `yaml:",inline"`
}

// Config is the in-memory representation of ~/.hff/hff.yaml.
type Config struct {
	DataRoot         string       `yaml:"data_root"`
	PixelScale       float64      `yaml:"pixel_scale,omitempty"`
	Reject           []string     `yaml:"reject,omitempty"`
	Backend          string       `yaml:"backend,omitempty"`
	CheckDeclination bool         `yaml:"check_declination,omitempty"`
	Clusters         []ClusterBox `yaml:"clusters,omitempty"`
}

// HFFDir returns the absolute path to the tool directory: $HFF_HOME when
// set, ~/.hff otherwise.
func HFFDir() (string, error) {
	if d := os.Getenv(EnvHome); d != "" {
		return ExpandPath(d)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".hff"), nil
}

// ConfigPath returns the absolute path to hff.yaml.
func ConfigPath() (string, error) {
	dir, err := HFFDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hff.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the Config written by hff init.
func DefaultConfig(dataRoot string) *Config {
	return &Config{
		DataRoot:   dataRoot,
		PixelScale: 0.2,
	}
}

// Load reads hff.yaml and applies environment overrides (HFF_DATA_ROOT,
// HFF_BACKEND, then ~/.hff/.env).
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.DataRoot, err = ExpandPath(cfg.DataRoot)
	if err != nil {
		return nil, err
	}
	if cfg.PixelScale == 0 {
		cfg.PixelScale = 0.2
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	env, err := Overrides()
	if err != nil {
		return err
	}
	if v, ok := env[EnvDataRoot]; ok {
		c.DataRoot = v
	}
	if v, ok := env[EnvBackend]; ok {
		c.Backend = v
	}
	return nil
}

// Validate reports settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataRoot) == "" {
		return fmt.Errorf("%w: data_root is empty", ErrInvalidConfig)
	}
	if c.PixelScale <= 0 {
		return fmt.Errorf("%w: pixel_scale must be positive, got %v", ErrInvalidConfig, c.PixelScale)
	}
	if _, err := c.Registry(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Registry returns the built-in cluster table extended by the configured
// clusters, with the declination check if requested.
func (c *Config) Registry() (*cluster.Registry, error) {
	var opts []cluster.Option
	if c.CheckDeclination {
		opts = append(opts, cluster.WithDeclinationCheck())
	}
	if len(c.Clusters) == 0 {
		return cluster.Default(opts...), nil
	}
	extra := make([]cluster.Entry, 0, len(c.Clusters))
	for _, cb := range c.Clusters {
		extra = append(extra, cluster.Entry{Name: cb.Name, Box: cb.Box})
	}
	return cluster.Default(opts...).With(extra)
}

// Save marshals cfg and writes it to hff.yaml while holding the config lock.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", filepath.Dir(path), err)
	}
	unlock, err := acquireLock(path+".lock", lockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
