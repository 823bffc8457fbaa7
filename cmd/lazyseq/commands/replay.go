package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed/difftest"
	"github.com/Sumatoshi-tech/lazyseq/pkg/config"
	"github.com/Sumatoshi-tech/lazyseq/pkg/observability"
	"github.com/Sumatoshi-tech/lazyseq/pkg/report"
	"github.com/Sumatoshi-tech/lazyseq/pkg/script"
)

// ReplayCommand holds the flags of the replay command.
type ReplayCommand struct {
	configPath  string
	format      string
	chartPath   string
	metricsAddr string
	linger      time.Duration
}

// NewReplayCommand creates the replay command.
func NewReplayCommand() *cobra.Command {
	rc := &ReplayCommand{}

	cmd := &cobra.Command{
		Use:   "replay <script.yaml|->",
		Short: "Replay a YAML edit script against both list strategies",
		Long: `Replay the edits of a script one by one, comparing the lazily generated list
with the fully materialized one after each edit.

Examples:
  lazyseq replay pkg/script/testdata/scenarios.yaml
  lazyseq replay --format json - < edits.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: rc.run,
	}

	cmd.Flags().StringVar(&rc.configPath, "config", "", "Config file for logging and telemetry")
	cmd.Flags().StringVar(&rc.format, "format", FormatText, "Output format: text, json, yaml")
	cmd.Flags().StringVar(&rc.chartPath, "chart", "", "Write an HTML chart of the replay to this file")
	cmd.Flags().StringVar(&rc.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().DurationVar(&rc.linger, "linger", 0, "Keep the metrics endpoint up this long after the replay")

	return cmd
}

func (rc *ReplayCommand) run(cmd *cobra.Command, args []string) error {
	err := checkFormat(rc.format)
	if err != nil {
		return err
	}

	data, label, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	s, err := script.Load(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}

	cfg, err := config.LoadConfig(rc.configPath)
	if err != nil {
		return err
	}

	if rc.metricsAddr != "" {
		cfg.Telemetry.MetricsAddr = rc.metricsAddr
	}

	tel, err := startTelemetry(cfg, observability.ModeReplay, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	defer tel.close(ctx, rc.linger)

	results, runErr := replay(ctx, tel, label, s)

	reportErr := rc.report(cmd, label, results, runErr)

	return errors.Join(runErr, reportErr)
}

func replay(ctx context.Context, tel *telemetry, label string, s *script.Script) ([]difftest.StepResult, error) {
	ctx, span := tel.providers.Tracer.Start(ctx, "lazyseq.replay",
		trace.WithAttributes(
			attribute.String("lazyseq.script", label),
			attribute.Int("lazyseq.edits", len(s.Replaces())),
		),
	)
	defer span.End()

	ctx = observability.WithRun(ctx, label)
	logger := tel.logger()

	results, err := s.Run(ctx, func(r difftest.StepResult) {
		tel.metrics.RecordStep(ctx, stepStats(r))
		logger.DebugContext(ctx, "step", "step", r.Step, "edit", r.Replace, "len", r.Len, "anchors", r.Anchors)
	})
	if err != nil {
		if errors.Is(err, difftest.ErrMismatch) {
			tel.metrics.RecordMismatch(ctx)
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "replay failed")

		return results, fmt.Errorf("replay %s: %w", label, err)
	}

	logger.InfoContext(ctx, "replay passed", "steps", len(results))

	return results, nil
}

func (rc *ReplayCommand) report(cmd *cobra.Command, label string, results []difftest.StepResult, runErr error) error {
	out := cmd.OutOrStdout()

	if rc.chartPath != "" {
		err := writeChartFile(rc.chartPath, label, results)
		if err != nil {
			return err
		}
	}

	if rc.format != FormatText {
		o := runOutput{Summary: report.Summarize(results), Steps: results}
		if runErr != nil {
			o.Error = runErr.Error()
		}

		return writeStructured(out, rc.format, o)
	}

	report.WriteTable(out, results)

	if runErr == nil {
		report.Success(out, "Replay of %s agrees after %d edits", label, len(results))
	}

	return nil
}
