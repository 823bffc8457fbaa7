// Package config provides configuration loading and validation for lazyseq.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidLength      = errors.New("initial length out of range")
	ErrInvalidSteps       = errors.New("steps must not be negative")
	ErrInvalidMaxEdit     = errors.New("max edit out of range")
	ErrInvalidReads       = errors.New("reads per step must not be negative")
	ErrInvalidRuns        = errors.New("runs must be positive")
	ErrInvalidParallel    = errors.New("parallel must be positive")
	ErrInvalidListOption  = errors.New("list options must not be negative")
	ErrInvalidLogLevel    = errors.New("unknown log level")
	ErrInvalidLogFormat   = errors.New("unknown log format")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

// envPrefix namespaces environment overrides, e.g. LAZYSEQ_WORKLOAD_STEPS.
const envPrefix = "LAZYSEQ"

// Config holds all configuration for the lazyseq binary.
type Config struct {
	Workload  WorkloadConfig  `mapstructure:"workload"`
	List      ListConfig      `mapstructure:"list"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// WorkloadConfig describes random differential runs.
type WorkloadConfig struct {
	InitialLength int    `mapstructure:"initial_length"`
	Steps         int    `mapstructure:"steps"`
	MaxEdit       int    `mapstructure:"max_edit"`
	ReadsPerStep  int    `mapstructure:"reads_per_step"`
	Seed          uint64 `mapstructure:"seed"`
	Runs          int    `mapstructure:"runs"`
	Parallel      int    `mapstructure:"parallel"`
	Sparse        bool   `mapstructure:"sparse"`
}

// ListConfig holds lazy list tuning.
type ListConfig struct {
	AnchorInterval int `mapstructure:"anchor_interval"`
	SeedLimit      int `mapstructure:"seed_limit"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry and Prometheus settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	MetricsAddr  string  `mapstructure:"metrics_addr"`
	Environment  string  `mapstructure:"environment"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty path searches for .lazyseq.yaml in the working directory and home.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".lazyseq")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := config.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("workload.initial_length", DefaultInitialLength)
	viperCfg.SetDefault("workload.steps", DefaultSteps)
	viperCfg.SetDefault("workload.max_edit", DefaultMaxEdit)
	viperCfg.SetDefault("workload.reads_per_step", DefaultReadsPerStep)
	viperCfg.SetDefault("workload.seed", DefaultSeed)
	viperCfg.SetDefault("workload.runs", DefaultRuns)
	viperCfg.SetDefault("workload.parallel", DefaultParallel)
	viperCfg.SetDefault("workload.sparse", false)

	viperCfg.SetDefault("list.anchor_interval", DefaultAnchorInterval)
	viperCfg.SetDefault("list.seed_limit", DefaultSeedLimit)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.metrics_addr", "")
	viperCfg.SetDefault("telemetry.environment", "")
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	w := c.Workload

	switch {
	case w.InitialLength < 0 || w.InitialLength > MaxLength:
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidLength, w.InitialLength, MaxLength)
	case w.Steps < 0:
		return fmt.Errorf("%w: %d", ErrInvalidSteps, w.Steps)
	case w.MaxEdit < 0 || w.MaxEdit > MaxLength:
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidMaxEdit, w.MaxEdit, MaxLength)
	case w.ReadsPerStep < 0:
		return fmt.Errorf("%w: %d", ErrInvalidReads, w.ReadsPerStep)
	case w.Runs <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidRuns, w.Runs)
	case w.Parallel <= 0:
		return fmt.Errorf("%w: %d", ErrInvalidParallel, w.Parallel)
	}

	if c.List.AnchorInterval < 0 || c.List.SeedLimit < 0 {
		return fmt.Errorf("%w: interval %d, seed limit %d",
			ErrInvalidListOption, c.List.AnchorInterval, c.List.SeedLimit)
	}

	_, err := c.Logging.SlogLevel()
	if err != nil {
		return err
	}

	if c.Logging.Format != FormatText && c.Logging.Format != FormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

// SlogLevel maps the configured level name onto a slog level.
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, l.Level)
	}
}
