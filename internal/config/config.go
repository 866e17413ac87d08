// Package config loads eudoxa settings from defaults, an optional config
// file, and EUDOXA_* environment variables, in increasing precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/HendryAvila/eudoxa/internal/errors"
)

// EnvPrefix is the prefix of every environment override, e.g.
// EUDOXA_LOG_LEVEL=debug or EUDOXA_DATA_DIR=/tmp/eudoxa.
const EnvPrefix = "EUDOXA"

// Config holds every runtime setting.
type Config struct {
	DataDir string  `mapstructure:"data_dir"`
	Log     Log     `mapstructure:"log"`
	Metrics Metrics `mapstructure:"metrics"`
	Closure Closure `mapstructure:"closure"`
}

// Log configures the zap logger.
type Log struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Metrics configures the Prometheus endpoint. An empty Addr disables it.
type Metrics struct {
	Addr string `mapstructure:"addr"`
}

// Closure bounds closure runs triggered through the tools.
type Closure struct {
	// MaxPasses of zero runs to the fixpoint.
	MaxPasses int `mapstructure:"max_passes"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir: filepath.Join(home, ".eudoxa"),
		Log:     Log{Level: "info"},
		Closure: Closure{MaxPasses: 0},
	}
}

// SetDefaults registers the defaults on a viper instance.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
	v.SetDefault("closure.max_passes", d.Closure.MaxPasses)
}

// Load reads the configuration. path may be empty; otherwise the file must
// exist and its extension selects the format (toml, yaml, json).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values viper cannot type-check.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return errors.NewInvalidRequest("data_dir is empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewInvalidRequest("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	if c.Closure.MaxPasses < 0 {
		return errors.NewInvalidRequest("closure.max_passes %d is negative", c.Closure.MaxPasses)
	}
	return nil
}
