package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Poll strategies. "interval" re-checks on a fixed cadence from the
// start; "delayed" waits longer before the first check and then
// re-checks on its own cadence, for backends where processing never
// finishes quickly.
const (
	PollStrategyInterval = "interval"
	PollStrategyDelayed  = "delayed"
)

// Global configuration structure.
type Global struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	PollStrategy        string `mapstructure:"poll_strategy" yaml:"poll_strategy"`
	PollIntervalSec     int    `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
	PollInitialDelaySec int    `mapstructure:"poll_initial_delay_sec" yaml:"poll_initial_delay_sec"`
	PollRecheckSec      int    `mapstructure:"poll_recheck_sec" yaml:"poll_recheck_sec"`

	UploadMaxMB       int      `mapstructure:"upload_max_mb" yaml:"upload_max_mb"`
	AllowedExtensions []string `mapstructure:"allowed_extensions" yaml:"allowed_extensions"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

// Default returns the built-in configuration. It backs Load's
// defaults and is what the CLI falls back to when the config file
// cannot be loaded at all.
func Default() *Global {
	return &Global{
		BaseURL:             "http://localhost:8000",
		HTTPTimeoutSec:      30,
		PollStrategy:        PollStrategyInterval,
		PollIntervalSec:     5,
		PollInitialDelaySec: 8,
		PollRecheckSec:      10,
		UploadMaxMB:         50,
		AllowedExtensions:   []string{".pdf", ".docx", ".doc", ".txt"},
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// PollDelays resolves the strategy into (delay before first check,
// delay between re-checks).
func (c *Global) PollDelays() (initial, recheck time.Duration) {
	if c.PollStrategy == PollStrategyDelayed {
		return time.Duration(c.PollInitialDelaySec) * time.Second,
			time.Duration(c.PollRecheckSec) * time.Second
	}
	d := time.Duration(c.PollIntervalSec) * time.Second
	return d, d
}

// Save writes the given configuration to the cfgFile path. If cfgFile
// is empty, it writes to ~/.hrnexus/config.yaml, creating the
// directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".hrnexus")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// A local .env file is read first so HRNEXUS_* vars can live there.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("HRNEXUS")
	v.AutomaticEnv()

	// Defaults
	d := Default()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("http_timeout_sec", d.HTTPTimeoutSec)
	v.SetDefault("poll_strategy", d.PollStrategy)
	v.SetDefault("poll_interval_sec", d.PollIntervalSec)
	v.SetDefault("poll_initial_delay_sec", d.PollInitialDelaySec)
	v.SetDefault("poll_recheck_sec", d.PollRecheckSec)
	v.SetDefault("upload_max_mb", d.UploadMaxMB)
	v.SetDefault("allowed_extensions", d.AllowedExtensions)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".hrnexus")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.PollStrategy != PollStrategyInterval && c.PollStrategy != PollStrategyDelayed {
		return nil, fmt.Errorf("invalid poll_strategy %q (want %s or %s)", c.PollStrategy, PollStrategyInterval, PollStrategyDelayed)
	}
	return &c, nil
}

// UploadPolicyValues returns the validation inputs derived from config.
func (c *Global) UploadPolicyValues() (extensions []string, maxBytes int64) {
	return c.AllowedExtensions, int64(c.UploadMaxMB) << 20
}
