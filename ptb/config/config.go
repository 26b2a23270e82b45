package config

import (
	"fmt"
	"strings"

	ptb "github.com/sageflow/ptbcodec/ptb"
	"github.com/sageflow/ptbcodec/ptb/entity"

	"github.com/spf13/viper"
)

// Config stores all tunable parameters of the engine. The values are read
// by viper from a config file or environment variables; the engine itself
// only ever sees the per-call Options derived from it.
type Config struct {
	Scan    ScanConfig  `mapstructure:"scan"`
	Assoc   AssocConfig `mapstructure:"assoc"`
	Workers int         `mapstructure:"workers"`
}

// ScanConfig stores tokenizer and numeric-scan parameters.
type ScanConfig struct {
	MinTokenLen int `mapstructure:"minTokenLen"`
	MaxTokenLen int `mapstructure:"maxTokenLen"`
}

// AssocConfig stores record-association parameters.
type AssocConfig struct {
	Window          int    `mapstructure:"window"`
	DuplicatePolicy string `mapstructure:"duplicatePolicy"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(ptb.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("scan.minTokenLen", 3)
	viper.SetDefault("scan.maxTokenLen", 100)
	viper.SetDefault("assoc.window", DefaultWindow)
	viper.SetDefault("assoc.duplicatePolicy", string(KeepLargerBalance))
	viper.SetDefault("workers", 0)

	viper.SetEnvPrefix(strings.ToUpper(ptb.DefaultAppName))
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults are used.
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &AppConfig, nil
}

// DefaultWindow is how many bytes past a token the associator searches for
// a balance. The legacy record layouts place the balance within roughly
// 100-200 bytes of the identifying fields.
const DefaultWindow = 160

// DuplicatePolicy selects how records sharing an identifying code collapse.
type DuplicatePolicy string

const (
	// KeepLargerBalance keeps the occurrence with the larger absolute
	// balance, on the assumption that later occurrences are running totals.
	// This is an inferred default, not a proven property of the format.
	KeepLargerBalance DuplicatePolicy = "keep-larger-balance"

	// KeepFirst keeps the first occurrence in file order.
	KeepFirst DuplicatePolicy = "keep-first"
)

// DiagFunc receives per-offset diagnostics while Debug is set. It replaces
// the legacy global debug toggle: the sink travels with the call.
type DiagFunc func(kind entity.Kind, offset int, message string)

// Options is the per-call configuration value handed to the import and
// export facades. There is no shared mutable debug toggle: diagnostics are
// requested here and returned with the result.
type Options struct {
	// Debug collects per-offset diagnostics alongside the result.
	Debug bool

	// Diag, when non-nil and Debug is set, additionally streams each
	// diagnostic as it is produced.
	Diag DiagFunc

	// StrictFilters disables the looser short-token heuristics.
	StrictFilters bool

	MinTokenLen     int
	MaxTokenLen     int
	Window          int
	DuplicatePolicy DuplicatePolicy

	// Workers bounds decode parallelism; zero picks a per-CPU default.
	Workers int

	// RequiredKinds makes the absence of these members fatal instead of a
	// statistics entry.
	RequiredKinds []entity.Kind
}

// DefaultOptions returns the engine defaults, independent of any loaded
// config file.
func DefaultOptions() Options {
	return Options{
		MinTokenLen:     3,
		MaxTokenLen:     100,
		Window:          DefaultWindow,
		DuplicatePolicy: KeepLargerBalance,
	}
}

// Options derives a per-call Options value from loaded configuration.
func (c *Config) Options() Options {
	o := DefaultOptions()
	if c.Scan.MinTokenLen > 0 {
		o.MinTokenLen = c.Scan.MinTokenLen
	}
	if c.Scan.MaxTokenLen > 0 {
		o.MaxTokenLen = c.Scan.MaxTokenLen
	}
	if c.Assoc.Window > 0 {
		o.Window = c.Assoc.Window
	}
	if c.Assoc.DuplicatePolicy != "" {
		o.DuplicatePolicy = DuplicatePolicy(c.Assoc.DuplicatePolicy)
	}
	o.Workers = c.Workers
	return o
}
