// Package config loads the statboard configuration file.
//
// The file is TOML or YAML, chosen by extension, and lives at
// $XDG_CONFIG_HOME/statboard/config.toml unless a path is given. Every
// setting is optional; command-line flags override what the file says.
//
//	[data]
//	f1 = "data/f1_results.csv"
//	epa = "data/team_week_epa.csv"
//	matchups = "data/matchups.db"
//	table = "matchups"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[labels.tight]
//	x_pad_frac = 0.05
//	y_pad_frac = 0.06
//	min_above_frac = 0.04
//	iters = 400
//	step = 0.3
//	seed = 11
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/statboard/pkg/errors"
	"github.com/matzehuels/statboard/pkg/labels"
)

// AppName names the config and cache directories.
const AppName = "statboard"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Built-in label presets.
const (
	PresetDefault   = "default"
	PresetLandscape = "landscape"
)

// DefaultAddr is the server listen address.
const DefaultAddr = "localhost:8080"

// Config is the whole configuration file.
type Config struct {
	Data   Data                     `toml:"data" yaml:"data" json:"data"`
	Cache  Cache                    `toml:"cache" yaml:"cache" json:"cache"`
	Server Server                   `toml:"server" yaml:"server" json:"server"`
	Labels map[string]labels.Config `toml:"labels" yaml:"labels" json:"labels,omitempty"`
}

// Data holds the dataset paths.
type Data struct {
	F1       string `toml:"f1" yaml:"f1" json:"f1,omitempty"`
	EPA      string `toml:"epa" yaml:"epa" json:"epa,omitempty"`
	Matchups string `toml:"matchups" yaml:"matchups" json:"matchups,omitempty"`
	// Table is the SQLite table read from .db and .sqlite datasets.
	Table string `toml:"table" yaml:"table" json:"table,omitempty"`
}

// Cache selects the artifact cache.
type Cache struct {
	Backend  string `toml:"backend" yaml:"backend" json:"backend"`
	Dir      string `toml:"dir" yaml:"dir" json:"dir,omitempty"`
	RedisURL string `toml:"redis_url" yaml:"redis_url" json:"redis_url,omitempty"`
}

// Server configures `statboard serve`.
type Server struct {
	Addr string `toml:"addr" yaml:"addr" json:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cache:  Cache{Backend: CacheFile},
		Server: Server{Addr: DefaultAddr},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/statboard/config.toml, falling back
// to the platform's user config directory.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "locate config directory")
		}
	}
	return filepath.Join(dir, AppName, "config.toml"), nil
}

// Load reads the configuration at path on top of [Default]. An empty path
// reads the default location, where a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.New(errors.ErrCodeFileNotFound, "config not found: %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read config")
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", filepath.Base(path))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", filepath.Base(path))
		}
	default:
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "config must be .toml, .yaml or .yml, got %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports an unknown cache backend or an invalid label preset.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case "", CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend redis needs redis_url")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	for name, l := range c.Labels {
		if err := l.Validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "label preset %q", name)
		}
	}
	return nil
}

// LabelPreset returns the named label config. The file's presets shadow
// the built-in "default" and "landscape".
func (c Config) LabelPreset(name string) (labels.Config, error) {
	if l, ok := c.Labels[name]; ok {
		return l, nil
	}
	switch name {
	case PresetDefault:
		return labels.DefaultConfig(), nil
	case PresetLandscape, "":
		return labels.LandscapeConfig(), nil
	}
	return labels.Config{}, errors.New(errors.ErrCodeNotFound, "unknown label preset %q (have: %s)", name, strings.Join(c.PresetNames(), ", "))
}

// PresetNames lists the built-in and configured presets, sorted.
func (c Config) PresetNames() []string {
	seen := map[string]bool{PresetDefault: true, PresetLandscape: true}
	for name := range c.Labels {
		seen[name] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
