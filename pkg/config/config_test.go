package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "negative min weight",
			mutate:    func(c *Config) { c.Thresholds.MinWeight = -0.1 },
			wantField: "thresholds.min_weight",
		},
		{
			name:      "zero min cochanges",
			mutate:    func(c *Config) { c.Thresholds.MinCochanges = 0 },
			wantField: "thresholds.min_cochanges",
		},
		{
			name:      "strong edge below min weight",
			mutate:    func(c *Config) { c.Thresholds.StrongEdgeWeight = 0.1 },
			wantField: "thresholds.strong_edge_weight",
		},
		{
			name:      "percentile at one",
			mutate:    func(c *Config) { c.Thresholds.HotspotPercentile = 1 },
			wantField: "thresholds.hotspot_percentile",
		},
		{
			name:      "percentile at zero",
			mutate:    func(c *Config) { c.Thresholds.HotspotPercentile = 0 },
			wantField: "thresholds.hotspot_percentile",
		},
		{
			name:      "zero session window",
			mutate:    func(c *Config) { c.Windows.SessionMinutes = 0 },
			wantField: "windows.session_minutes",
		},
		{
			name:      "negative cascade window",
			mutate:    func(c *Config) { c.Windows.CascadeMinutes = -5 },
			wantField: "windows.cascade_minutes",
		},
		{
			name:      "zero cascade scan",
			mutate:    func(c *Config) { c.Windows.CascadeMaxScan = 0 },
			wantField: "windows.cascade_max_scan",
		},
		{
			name:      "negative pair cap",
			mutate:    func(c *Config) { c.Limits.MaxPairs = -1 },
			wantField: "limits.max_pairs",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var cerr *ConfigurationError
			require.True(t, errors.As(err, &cerr), "error type = %T", err)
			assert.Equal(t, tt.wantField, cerr.Field)
		})
	}
}

func TestWindowDurations(t *testing.T) {
	w := WindowConfig{SessionMinutes: 5, CascadeMinutes: 0.5}
	assert.Equal(t, 5*time.Minute, w.SessionWindow())
	assert.Equal(t, 30*time.Second, w.CascadeWindow())
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cochange.toml")
	content := `
[thresholds]
min_weight = 1.0
strong_edge_weight = 4.0

[windows]
session_minutes = 10.0

[output]
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1.0, cfg.Thresholds.MinWeight)
	assert.Equal(t, 4.0, cfg.Thresholds.StrongEdgeWeight)
	assert.Equal(t, 10.0, cfg.Windows.SessionMinutes)
	assert.Equal(t, "json", cfg.Output.Format)

	// Untouched keys keep their defaults.
	assert.Equal(t, 3, cfg.Thresholds.MinCochanges)
	assert.Equal(t, 50, cfg.Windows.CascadeMaxScan)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cochange.yaml")
	require.NoError(t, os.WriteFile(path, []byte("thresholds:\n  min_cochanges: 5\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Thresholds.MinCochanges)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cochange.toml")
	require.NoError(t, os.WriteFile(path, []byte("[thresholds]\nhotspot_percentile = 2.0\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)

	var cerr *ConfigurationError
	assert.True(t, errors.As(err, &cerr))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
