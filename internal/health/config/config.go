// Package config resolves repohealth settings from flags, environment
// variables and an optional .repohealth.yaml file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// FileName is the config file name searched in the working and home
// directories (without extension).
const FileName = ".repohealth"

// EnvPrefix prefixes every environment variable, e.g. REPOHEALTH_STORE_DIR.
const EnvPrefix = "REPOHEALTH"

// Config is the resolved configuration.
type Config struct {
	Token     string  `mapstructure:"token" yaml:"-"`
	APIURL    string  `mapstructure:"api-url" yaml:"api-url,omitempty" validate:"omitempty,url"`
	Output    string  `mapstructure:"output" yaml:"output" validate:"oneof=text table markdown md json yaml yml"`
	StoreDir  string  `mapstructure:"store-dir" yaml:"store-dir" validate:"required"`
	Workers   int     `mapstructure:"workers" yaml:"workers" validate:"gte=1,lte=64"`
	Rate      float64 `mapstructure:"rate" yaml:"rate" validate:"gte=0"`
	LogLevel  string  `mapstructure:"log-level" yaml:"log-level" validate:"oneof=debug info warn error"`
	LogFormat string  `mapstructure:"log-format" yaml:"log-format" validate:"oneof=text json"`
	Color     string  `mapstructure:"color" yaml:"color" validate:"oneof=auto always never"`
	Addr      string  `mapstructure:"addr" yaml:"addr" validate:"required"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Output:    "text",
		StoreDir:  ".repohealth",
		Workers:   4,
		Rate:      5,
		LogLevel:  "info",
		LogFormat: "text",
		Color:     "auto",
		Addr:      ":8080",
	}
}

// New returns a viper instance with search paths, environment binding and
// defaults applied. A non-empty file overrides the search paths.
func New(file string) *viper.Viper {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("token", "")
	v.SetDefault("api-url", "")
	v.SetDefault("output", d.Output)
	v.SetDefault("store-dir", d.StoreDir)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("rate", d.Rate)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("color", d.Color)
	v.SetDefault("addr", d.Addr)
	return v
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the config file if present, merges every source and validates
// the result. GITHUB_TOKEN is used when no token is configured.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if cfg.Token == "" {
		cfg.Token = os.Getenv("GITHUB_TOKEN")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe.StructField())
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %v fails %s=%s", key, fe.Value(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: %v fails %s", key, fe.Value(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// fieldKey maps a struct field to its config key.
func fieldKey(field string) string {
	switch field {
	case "APIURL":
		return "api-url"
	case "StoreDir":
		return "store-dir"
	case "LogLevel":
		return "log-level"
	case "LogFormat":
		return "log-format"
	}
	return strings.ToLower(field)
}

// Logger builds the slog logger described by the config.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// UseColor reports whether terminal output should be coloured. In auto
// mode colour follows whether out is a terminal.
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	}
	return isTerminal
}
