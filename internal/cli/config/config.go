package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileName is the configuration file base name looked up in the working
// directory, with a .yaml or .yml extension
const FileName = "graphite-graph"

// EnvPrefix prefixes environment overrides, e.g. GRAPHITE_GRAPH_LOG_LEVEL
const EnvPrefix = "GRAPHITE_GRAPH"

// Output formats accepted by the compile command
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config represents the graphite-graph configuration
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Format   string        `mapstructure:"format"`
	Compile  CompileConfig `mapstructure:"compile"`
}

// CompileConfig holds defaults for the compile command
type CompileConfig struct {
	// Parallel compiles metrics concurrently
	Parallel bool `mapstructure:"parallel"`
	// Workers bounds concurrent compilation; zero means GOMAXPROCS
	Workers int `mapstructure:"workers"`
	// Prefix is prepended to every series that is not rooted
	Prefix string `mapstructure:"prefix"`
	// Vars are substituted for {{NAME}} markers in definition files
	Vars map[string]string `mapstructure:"vars"`
}

// Load loads the configuration from graphite-graph.yaml in the working
// directory, falling back to defaults when there is none
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom loads the configuration from dir
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "warn")
	v.SetDefault("format", FormatText)
	v.SetDefault("compile.parallel", true)
	v.SetDefault("compile.workers", 0)
	v.SetDefault("compile.prefix", "")
	v.SetDefault("compile.vars", map[string]string{})

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Parallelism returns the worker bound for the compiler: one when parallel
// compilation is off, otherwise Workers or GOMAXPROCS
func (c *Config) Parallelism() int {
	if !c.Compile.Parallel {
		return 1
	}
	if c.Compile.Workers > 0 {
		return c.Compile.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// NewLogger builds the logger for the configured level. Debug logging uses
// the human-oriented development encoder.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	var zc zap.Config
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

func validateConfig(cfg *Config) error {
	cfg.Format = strings.ToLower(cfg.Format)
	switch cfg.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("format must be %q or %q, got: %s", FormatText, FormatJSON, cfg.Format)
	}

	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got: %s", cfg.LogLevel)
	}

	if cfg.Compile.Workers < 0 {
		return fmt.Errorf("compile.workers must not be negative, got: %d", cfg.Compile.Workers)
	}
	return nil
}
