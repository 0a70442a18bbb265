// Package config loads converter settings from YAML or TOML files and from
// TYPECATS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"typecats/convert"
	"typecats/primitive"
)

// EnvPrefix starts the name of every environment variable read by FromEnv.
const EnvPrefix = "TYPECATS_"

var ErrUnknownFormat = errors.New("unknown config format")

type Config struct {
	// DetailedValidation collects every failure instead of stopping at the
	// first one.
	DetailedValidation bool `yaml:"detailed_validation" toml:"detailed_validation" mapstructure:"detailed_validation"`
	// CacheSize bounds the per-type function cache of the converter.
	CacheSize int `yaml:"cache_size" toml:"cache_size" mapstructure:"cache_size"`
	// Coercions names the scalar conversion categories allowed, see
	// primitive.ParseCategories.
	Coercions []string `yaml:"coercions" toml:"coercions" mapstructure:"coercions"`
	LogLevel  string   `yaml:"log_level" toml:"log_level" mapstructure:"log_level"`
}

// Default is the configuration used when nothing else is given.
func Default() Config {
	return Config{
		DetailedValidation: true,
		CacheSize:          convert.DefaultCacheSize,
		Coercions:          []string{"default"},
		LogLevel:           "info",
	}
}

// Load reads a configuration file over the defaults. The format follows the
// file extension: .yaml, .yml or .toml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the format named by ext over the defaults.
func Parse(data []byte, ext string) (Config, error) {
	cfg := Default()

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w %q", ErrUnknownFormat, ext)
	}

	return cfg, nil
}

// FromEnv overrides cfg with the TYPECATS_* variables found by lookup, such
// as TYPECATS_CACHE_SIZE=64 or TYPECATS_COERCIONS=default,text_number.
func FromEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	values := make(map[string]any)

	for _, key := range []string{"detailed_validation", "cache_size", "coercions", "log_level"} {
		if v, ok := lookup(EnvPrefix + strings.ToUpper(key)); ok {
			values[key] = v
		}
	}

	if len(values) == 0 {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}

	if err := decoder.Decode(values); err != nil {
		return Config{}, fmt.Errorf("failed to read %s environment: %w", EnvPrefix, err)
	}

	return cfg, nil
}

// LoadEnv is Load (when path is not empty) followed by FromEnv on the
// process environment.
func LoadEnv(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return Config{}, err
		}
	}

	return FromEnv(cfg, os.LookupEnv)
}

// Level parses LogLevel; an empty level is info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}

	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}

	return level, nil
}

// ConverterOptions turns the configuration into converter options.
func (c Config) ConverterOptions() ([]convert.Option, error) {
	coercions, err := primitive.ParseCategories(c.Coercions)
	if err != nil {
		return nil, err
	}

	return []convert.Option{
		convert.WithDetailedValidation(c.DetailedValidation),
		convert.WithCacheSize(c.CacheSize),
		convert.WithCoercions(coercions),
	}, nil
}
