// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

// Package config loads the run configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"CopperGold_Causality_VAR_Project/internal/varmodel"
)

// EnvPrefix is the prefix of every environment override, e.g. CUGOLD_SOURCES_GOLD
const EnvPrefix = "CUGOLD"

// CutoffLayout is the date format of split.cutoff
const CutoffLayout = "2006-01-02"

// Config represents the complete run configuration.
type Config struct {
	Sources   SourcesConfig   `mapstructure:"sources"   yaml:"sources"`
	Ratio     RatioConfig     `mapstructure:"ratio"     yaml:"ratio"`
	Split     SplitConfig     `mapstructure:"split"     yaml:"split"`
	Model     ModelConfig     `mapstructure:"model"     yaml:"model"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"  yaml:"analysis"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap" yaml:"bootstrap"`
	Output    OutputConfig    `mapstructure:"output"    yaml:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// SourcesConfig holds the locations of the three input files.
type SourcesConfig struct {
	Spread string `mapstructure:"spread" yaml:"spread"` // daily 10Y-2Y spread CSV
	Gold   string `mapstructure:"gold"   yaml:"gold"`   // daily gold spot CSV, newest first
	Copper string `mapstructure:"copper" yaml:"copper"` // monthly copper spot CSV
}

// RatioConfig holds the copper/gold ratio settings.
type RatioConfig struct {
	ConversionFactor float64 `mapstructure:"conversion_factor" yaml:"conversion_factor"` // pounds per metric ton
	RollingWindow    int     `mapstructure:"rolling_window"    yaml:"rolling_window"`
}

// SplitConfig holds the train/test cutoff.
type SplitConfig struct {
	Cutoff string `mapstructure:"cutoff" yaml:"cutoff"` // last training date, YYYY-MM-DD
}

// ModelConfig holds VAR specification settings.
type ModelConfig struct {
	LagMax int    `mapstructure:"lag_max" yaml:"lag_max"`
	Trend  string `mapstructure:"trend"   yaml:"trend"` // "none", "const", "trend", "both"
}

// AnalysisConfig holds the dynamic response settings.
type AnalysisConfig struct {
	IRFHorizon int     `mapstructure:"irf_horizon" yaml:"irf_horizon"`
	Alpha      float64 `mapstructure:"alpha"       yaml:"alpha"`
}

// BootstrapConfig holds the residual bootstrap settings.
type BootstrapConfig struct {
	Enabled      bool    `mapstructure:"enabled"      yaml:"enabled"`
	Replications int     `mapstructure:"replications" yaml:"replications"`
	Alpha        float64 `mapstructure:"alpha"        yaml:"alpha"`
	Seed         int64   `mapstructure:"seed"         yaml:"seed"` // 0 = time-based
	Granger      bool    `mapstructure:"granger"      yaml:"granger"`
}

// OutputConfig holds where reports are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/cugold.yaml
//  2. ./cugold.yaml
//
// Environment variables override config file values.
// Format: CUGOLD_<SECTION>_<KEY>, e.g., CUGOLD_MODEL_LAG_MAX
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("cugold")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets the reference values for every config key.
func setDefaults(v *viper.Viper) {
	// Sources
	v.SetDefault("sources.spread", "data/spread.csv")
	v.SetDefault("sources.gold", "data/gold.csv")
	v.SetDefault("sources.copper", "data/copper.csv")

	// Ratio
	v.SetDefault("ratio.conversion_factor", 2204.62)
	v.SetDefault("ratio.rolling_window", 12)

	// Split
	v.SetDefault("split.cutoff", "2018-12-31")

	// Model
	v.SetDefault("model.lag_max", 12)
	v.SetDefault("model.trend", "both")

	// Analysis
	v.SetDefault("analysis.irf_horizon", 20)
	v.SetDefault("analysis.alpha", 0.05)

	// Bootstrap (off unless asked for)
	v.SetDefault("bootstrap.enabled", false)
	v.SetDefault("bootstrap.replications", 500)
	v.SetDefault("bootstrap.alpha", 0.05)
	v.SetDefault("bootstrap.seed", 12345)
	v.SetDefault("bootstrap.granger", false)

	// Output
	v.SetDefault("output.dir", "output")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks every value the pipeline depends on.
func (c *Config) Validate() error {
	var problems []error

	for _, src := range []struct{ key, path string }{
		{"sources.spread", c.Sources.Spread},
		{"sources.gold", c.Sources.Gold},
		{"sources.copper", c.Sources.Copper},
	} {
		if strings.TrimSpace(src.path) == "" {
			problems = append(problems, fmt.Errorf("%s must be set", src.key))
		}
	}
	if c.Ratio.ConversionFactor <= 0 {
		problems = append(problems, fmt.Errorf("ratio.conversion_factor must be > 0, got %v", c.Ratio.ConversionFactor))
	}
	if c.Ratio.RollingWindow < 1 {
		problems = append(problems, fmt.Errorf("ratio.rolling_window must be >= 1, got %d", c.Ratio.RollingWindow))
	}
	if _, err := c.Cutoff(); err != nil {
		problems = append(problems, err)
	}
	if c.Model.LagMax < 1 {
		problems = append(problems, fmt.Errorf("model.lag_max must be >= 1, got %d", c.Model.LagMax))
	}
	if _, err := c.Deterministic(); err != nil {
		problems = append(problems, fmt.Errorf("model.trend: %w", err))
	}
	if c.Analysis.IRFHorizon < 1 {
		problems = append(problems, fmt.Errorf("analysis.irf_horizon must be >= 1, got %d", c.Analysis.IRFHorizon))
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		problems = append(problems, fmt.Errorf("analysis.alpha must be in (0, 1), got %v", c.Analysis.Alpha))
	}
	if c.Bootstrap.Enabled || c.Bootstrap.Granger {
		if c.Bootstrap.Replications < 1 {
			problems = append(problems, fmt.Errorf("bootstrap.replications must be >= 1, got %d", c.Bootstrap.Replications))
		}
		if c.Bootstrap.Alpha <= 0 || c.Bootstrap.Alpha >= 1 {
			problems = append(problems, fmt.Errorf("bootstrap.alpha must be in (0, 1), got %v", c.Bootstrap.Alpha))
		}
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}

	return errors.Join(problems...)
}

// Cutoff parses split.cutoff.
func (c *Config) Cutoff() (time.Time, error) {
	t, err := time.Parse(CutoffLayout, strings.TrimSpace(c.Split.Cutoff))
	if err != nil {
		return time.Time{}, fmt.Errorf("split.cutoff %q is not a YYYY-MM-DD date", c.Split.Cutoff)
	}
	return t, nil
}

// Deterministic parses model.trend.
func (c *Config) Deterministic() (varmodel.Deterministic, error) {
	return varmodel.ParseDeterministic(c.Model.Trend)
}
