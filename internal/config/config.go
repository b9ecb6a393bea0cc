// Package config resolves webwatcher settings from command-line flags,
// WEBWATCHER_* environment variables and the built-in Defaults table, in
// that order of precedence. There is no configuration file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zoro11031/webwatcher/internal/common"
)

// Settings is the resolved configuration for one run.
type Settings struct {
	ProfileDir   string        `mapstructure:"profile_dir"`
	Browser      string        `mapstructure:"browser"`
	SettleWindow time.Duration `mapstructure:"settle_window"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	TimeFormat   string        `mapstructure:"time_format"`
	Color        string        `mapstructure:"color"`
	LogLevel     string        `mapstructure:"log_level"`
	LogFormat    string        `mapstructure:"log_format"`

	NonInteractive bool `mapstructure:"non_interactive"`
}

// Config wraps a viper instance seeded with Defaults.
type Config struct {
	viper *viper.Viper
}

// New creates a Config reading the WEBWATCHER_ environment.
func New() *Config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, value := range Defaults {
		v.SetDefault(key, value)
	}
	return &Config{viper: v}
}

// FlagName returns the command-line flag bound to key.
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// BindFlags binds every known key to its flag in flags, if present.
func (c *Config) BindFlags(flags *pflag.FlagSet) error {
	for key := range Defaults {
		flag := flags.Lookup(FlagName(key))
		if flag == nil {
			continue
		}
		if err := c.viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag.Name, err)
		}
	}
	return nil
}

// Set overrides a value for the rest of the run.
func (c *Config) Set(key string, value any) {
	c.viper.Set(key, value)
}

// Load decodes and validates the settings.
func (c *Config) Load() (Settings, error) {
	var settings Settings
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := c.viper.Unmarshal(&settings, hook); err != nil {
		return Settings{}, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate checks the settings that can be checked without touching the
// filesystem.
func (s Settings) Validate() error {
	if s.Browser != "" {
		if err := common.ValidateNotEmpty(s.Browser); err != nil {
			return fmt.Errorf("invalid %s: %w", KeyBrowser, err)
		}
	}
	if err := common.ValidatePositiveDuration(s.SettleWindow); err != nil {
		return fmt.Errorf("invalid %s: %w", KeySettleWindow, err)
	}
	if err := common.ValidatePositiveDuration(s.PollInterval); err != nil {
		return fmt.Errorf("invalid %s: %w", KeyPollInterval, err)
	}
	if err := common.ValidateOneOf(s.TimeFormat, TimeFormats); err != nil {
		return fmt.Errorf("invalid %s: %w", KeyTimeFormat, err)
	}
	if err := common.ValidateOneOf(s.Color, ColorModes); err != nil {
		return fmt.Errorf("invalid %s: %w", KeyColor, err)
	}
	return nil
}
