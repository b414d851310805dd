package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for cochange.
type Config struct {
	// Graph and clustering thresholds
	Thresholds ThresholdConfig `koanf:"thresholds"`

	// Session and cascade windows
	Windows WindowConfig `koanf:"windows"`

	// Resource limits
	Limits LimitConfig `koanf:"limits"`

	// File exclusion patterns applied at extraction time
	Exclude ExcludeConfig `koanf:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// ThresholdConfig defines coupling thresholds.
type ThresholdConfig struct {
	// MinWeight is the minimum accumulated pair weight for an edge.
	MinWeight float64 `koanf:"min_weight"`
	// MinCochanges is the minimum raw co-change count for an edge.
	MinCochanges int `koanf:"min_cochanges"`
	// StrongEdgeWeight is the clustering threshold. Must be >= MinWeight:
	// edge inclusion asks "is there any coupling evidence", clustering asks
	// "is it strong enough to call a module".
	StrongEdgeWeight float64 `koanf:"strong_edge_weight"`
	// HotspotPercentile is the centrality percentile above which a node
	// counts as a hotspot. Open interval (0, 1).
	HotspotPercentile float64 `koanf:"hotspot_percentile"`
}

// WindowConfig defines temporal windows for session and cascade detection.
type WindowConfig struct {
	SessionMinutes float64 `koanf:"session_minutes"`
	CascadeMinutes float64 `koanf:"cascade_minutes"`
	// CascadeMaxScan bounds the forward commit scan from a cascade's
	// trigger. Whichever of the time and count bounds is hit first stops
	// the scan.
	CascadeMaxScan int `koanf:"cascade_max_scan"`
}

// SessionWindow returns the session window as a duration.
func (w WindowConfig) SessionWindow() time.Duration {
	return time.Duration(w.SessionMinutes * float64(time.Minute))
}

// CascadeWindow returns the cascade window as a duration.
func (w WindowConfig) CascadeWindow() time.Duration {
	return time.Duration(w.CascadeMinutes * float64(time.Minute))
}

// LimitConfig defines hard resource caps.
type LimitConfig struct {
	// MaxPairs caps the number of distinct file pairs accumulated during
	// aggregation. 0 means unlimited. Exceeding the cap truncates new
	// pairs and surfaces a warning in the report, never silently.
	MaxPairs int `koanf:"max_pairs"`
}

// ExcludeConfig defines extraction-time path filters.
type ExcludeConfig struct {
	Suffixes []string `koanf:"suffixes"`
	Dirs     []string `koanf:"dirs"`
}

// CacheConfig controls report caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	TTL     int    `koanf:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			MinWeight:         0.5,
			MinCochanges:      3,
			StrongEdgeWeight:  2.0,
			HotspotPercentile: 0.95,
		},
		Windows: WindowConfig{
			SessionMinutes: 5,
			CascadeMinutes: 30,
			CascadeMaxScan: 50,
		},
		Limits: LimitConfig{
			MaxPairs: 2_000_000,
		},
		Exclude: ExcludeConfig{
			Suffixes: []string{
				".lock", ".sum", ".min.js", ".min.css",
				".png", ".jpg", ".jpeg", ".gif", ".ico", ".svg",
				".zip", ".tar", ".gz", ".pdf",
				".exe", ".dll", ".so", ".dylib", ".bin",
				".pyc", ".class", ".jar",
				".ttf", ".woff", ".woff2",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				"dist",
				"build",
				"__pycache__",
				".idea",
				".vscode",
			},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".cochange/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// ConfigurationError reports internally inconsistent thresholds. It is
// fatal: analysis must not start with a config that fails validation.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Validate checks the config for internal consistency.
func (c *Config) Validate() error {
	t := c.Thresholds
	if t.MinWeight < 0 {
		return &ConfigurationError{Field: "thresholds.min_weight", Reason: "must be >= 0"}
	}
	if t.MinCochanges < 1 {
		return &ConfigurationError{Field: "thresholds.min_cochanges", Reason: "must be >= 1"}
	}
	if t.StrongEdgeWeight < t.MinWeight {
		return &ConfigurationError{
			Field:  "thresholds.strong_edge_weight",
			Reason: fmt.Sprintf("must be >= min_weight (%g)", t.MinWeight),
		}
	}
	if t.HotspotPercentile <= 0 || t.HotspotPercentile >= 1 {
		return &ConfigurationError{Field: "thresholds.hotspot_percentile", Reason: "must be in (0, 1)"}
	}
	if c.Windows.SessionMinutes <= 0 {
		return &ConfigurationError{Field: "windows.session_minutes", Reason: "must be > 0"}
	}
	if c.Windows.CascadeMinutes <= 0 {
		return &ConfigurationError{Field: "windows.cascade_minutes", Reason: "must be > 0"}
	}
	if c.Windows.CascadeMaxScan < 1 {
		return &ConfigurationError{Field: "windows.cascade_max_scan", Reason: "must be >= 1"}
	}
	if c.Limits.MaxPairs < 0 {
		return &ConfigurationError{Field: "limits.max_pairs", Reason: "must be >= 0"}
	}
	return nil
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns
// defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"cochange.toml",
		"cochange.yaml",
		"cochange.yml",
		"cochange.json",
		".cochange.toml",
		".cochange.yaml",
		".cochange.yml",
		".cochange.json",
	}
	searchDirs := []string{".", ".cochange"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				if cfg, err := Load(path); err == nil {
					return cfg
				}
			}
		}
	}
	return DefaultConfig()
}
