// Package config handles refcheck's global configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/matsen/refcheck/internal/pipeline"
	"github.com/matsen/refcheck/internal/segment"
	"github.com/matsen/refcheck/internal/title"
)

// GlobalConfig represents configuration stored in ~/.config/refcheck/config.yml.
type GlobalConfig struct {
	SerpAPIKey          string  `yaml:"serpapi_key,omitempty"`
	ScopusKey           string  `yaml:"scopus_key,omitempty"`
	CrossrefMailto      string  `yaml:"crossref_mailto,omitempty"`
	CachePath           string  `yaml:"cache_path,omitempty"`
	SplitBackoff        int     `yaml:"split_backoff"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	Workers             int     `yaml:"workers"`
	ListenAddr          string  `yaml:"listen_addr"`
	LogLevel            string  `yaml:"log_level"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "refcheck"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"

	// CacheDir is the directory name under XDG_CACHE_HOME.
	CacheDir = "refcheck"
	// CacheFile is the lookup cache database name.
	CacheFile = "cache.db"

	DefaultWorkers    = 4
	DefaultListenAddr = ":8080"
	DefaultLogLevel   = "info"
)

// Environment variables that override the config file.
const (
	EnvSerpAPIKey     = "SERPAPI_KEY"
	EnvScopusKey      = "SCOPUS_KEY"
	EnvCrossrefMailto = "CROSSREF_MAILTO"
	EnvCachePath      = "REFCHECK_CACHE"
	EnvLogLevel       = "REFCHECK_LOG_LEVEL"
)

// ErrInvalidConfig is returned when a configured value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// Defaults returns the configuration used when no file is present.
func Defaults() GlobalConfig {
	return GlobalConfig{
		SplitBackoff:        segment.DefaultBackoff,
		SimilarityThreshold: title.SimilarThreshold,
		Workers:             DefaultWorkers,
		ListenAddr:          DefaultListenAddr,
		LogLevel:            DefaultLogLevel,
	}
}

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/refcheck/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// DefaultCachePath returns the default lookup cache location.
// Respects XDG_CACHE_HOME, defaults to ~/.cache/refcheck/cache.db.
func DefaultCachePath() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), CacheDir, CacheFile)
		}
		cacheHome = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheHome, CacheDir, CacheFile)
}

// LoadEnv loads a .env file from the working directory if one exists.
// A missing file is not an error.
func LoadEnv() {
	_ = godotenv.Load()
}

// LoadGlobalConfig loads the global configuration file and applies
// environment overrides. A missing file yields the defaults.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	cfg := Defaults()
	if path := GlobalConfigPath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
		// Keys absent from the file keep their defaults.
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing global config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	if cfg.CachePath != "" {
		cfg.CachePath = ExpandPath(cfg.CachePath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

func (c *GlobalConfig) applyEnv() {
	overrides := []struct {
		env string
		dst *string
	}{
		{EnvSerpAPIKey, &c.SerpAPIKey},
		{EnvScopusKey, &c.ScopusKey},
		{EnvCrossrefMailto, &c.CrossrefMailto},
		{EnvCachePath, &c.CachePath},
		{EnvLogLevel, &c.LogLevel},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.dst = v
		}
	}
}

// Validate checks that numeric settings are in range.
func (c *GlobalConfig) Validate() error {
	if c.SplitBackoff < 0 {
		return fmt.Errorf("%w: split_backoff must be >= 0, got %d", ErrInvalidConfig, c.SplitBackoff)
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity_threshold must be in (0, 1], got %g", ErrInvalidConfig, c.SimilarityThreshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidConfig, c.Workers)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level must be debug, info, warn or error, got %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// PipelineOptions returns the pipeline options implied by the config.
func (c *GlobalConfig) PipelineOptions() pipeline.Options {
	return pipeline.Options{Segment: segment.Options{Backoff: c.SplitBackoff}}
}

// ResolvedCachePath returns the configured cache path or the default one.
func (c *GlobalConfig) ResolvedCachePath() string {
	if c.CachePath != "" {
		return c.CachePath
	}
	return DefaultCachePath()
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
