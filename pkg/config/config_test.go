package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/lazyseq/pkg/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lazyseq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultInitialLength, cfg.Workload.InitialLength)
	assert.Equal(t, config.DefaultSteps, cfg.Workload.Steps)
	assert.Equal(t, config.DefaultMaxEdit, cfg.Workload.MaxEdit)
	assert.Equal(t, config.DefaultReadsPerStep, cfg.Workload.ReadsPerStep)
	assert.Equal(t, uint64(config.DefaultSeed), cfg.Workload.Seed)
	assert.Equal(t, config.DefaultRuns, cfg.Workload.Runs)
	assert.Equal(t, config.DefaultParallel, cfg.Workload.Parallel)
	assert.Equal(t, config.DefaultSeedLimit, cfg.List.SeedLimit)
	assert.Equal(t, config.DefaultAnchorInterval, cfg.List.AnchorInterval)
	assert.Equal(t, config.FormatText, cfg.Logging.Format)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
workload:
  initial_length: 1000
  steps: 50
  seed: 42
  runs: 8
list:
  anchor_interval: 32
  seed_limit: 0
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: "localhost:4317"
  otlp_insecure: true
  sample_ratio: 0.5
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Workload.InitialLength)
	assert.Equal(t, 50, cfg.Workload.Steps)
	assert.Equal(t, uint64(42), cfg.Workload.Seed)
	assert.Equal(t, 8, cfg.Workload.Runs)
	assert.Equal(t, config.DefaultMaxEdit, cfg.Workload.MaxEdit)
	assert.Equal(t, 32, cfg.List.AnchorInterval)
	assert.Equal(t, 0, cfg.List.SeedLimit)
	assert.Equal(t, config.FormatJSON, cfg.Logging.Format)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.True(t, cfg.Telemetry.OTLPInsecure)
	assert.InDelta(t, 0.5, cfg.Telemetry.SampleRatio, 0.0001)

	level, err := cfg.Logging.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("LAZYSEQ_WORKLOAD_STEPS", "7")
	t.Setenv("LAZYSEQ_LIST_ANCHOR_INTERVAL", "12")

	cfg, err := config.LoadConfig(writeConfig(t, "workload:\n  steps: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Workload.Steps)
	assert.Equal(t, 12, cfg.List.AnchorInterval)
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfigValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "negative length", content: "workload:\n  initial_length: -1\n", wantErr: config.ErrInvalidLength},
		{name: "length too large", content: "workload:\n  initial_length: 2000000000\n", wantErr: config.ErrInvalidLength},
		{name: "max edit too large", content: "workload:\n  max_edit: 20000000\n", wantErr: config.ErrInvalidMaxEdit},
		{name: "negative steps", content: "workload:\n  steps: -2\n", wantErr: config.ErrInvalidSteps},
		{name: "negative max edit", content: "workload:\n  max_edit: -1\n", wantErr: config.ErrInvalidMaxEdit},
		{name: "negative reads", content: "workload:\n  reads_per_step: -1\n", wantErr: config.ErrInvalidReads},
		{name: "zero runs", content: "workload:\n  runs: 0\n", wantErr: config.ErrInvalidRuns},
		{name: "zero parallel", content: "workload:\n  parallel: 0\n", wantErr: config.ErrInvalidParallel},
		{name: "negative interval", content: "list:\n  anchor_interval: -4\n", wantErr: config.ErrInvalidListOption},
		{name: "unknown level", content: "logging:\n  level: loud\n", wantErr: config.ErrInvalidLogLevel},
		{name: "unknown format", content: "logging:\n  format: xml\n", wantErr: config.ErrInvalidLogFormat},
		{name: "ratio above one", content: "telemetry:\n  sample_ratio: 2\n", wantErr: config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}

	for name, want := range tests {
		got, err := config.LoggingConfig{Level: name}.SlogLevel()
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}
