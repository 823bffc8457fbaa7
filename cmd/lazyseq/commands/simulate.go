package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/lazyseq/pkg/compressed/difftest"
	"github.com/Sumatoshi-tech/lazyseq/pkg/config"
	"github.com/Sumatoshi-tech/lazyseq/pkg/observability"
	"github.com/Sumatoshi-tech/lazyseq/pkg/report"
	"github.com/Sumatoshi-tech/lazyseq/pkg/safeconv"
)

// ErrRunsFailed is returned when at least one seeded run diverged or failed.
var ErrRunsFailed = errors.New("simulation runs failed")

// SimulateCommand holds the flags of the simulate command.
type SimulateCommand struct {
	configPath     string
	format         string
	chartPath      string
	linger         time.Duration
	initialLength  int
	steps          int
	maxEdit        int
	reads          int
	seed           uint64
	runs           int
	parallel       int
	sparse         bool
	anchorInterval int
	seedLimit      int
	metricsAddr    string
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand() *cobra.Command {
	sc := &SimulateCommand{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run seeded random edit workloads against both list strategies",
		Long: `Run seeded random edit workloads. Every run builds a lazily generated list
and a fully materialized one over the same generator, applies random edits and
reads, and compares both lists after every edit. With --sparse only the random
reads are compared between edits and the full comparison happens once at the end.

Runs use consecutive seeds starting at --seed and execute --parallel at a time.`,
		Args: cobra.NoArgs,
		RunE: sc.run,
	}

	cmd.Flags().StringVar(&sc.configPath, "config", "", "Config file (default .lazyseq.yaml in . or $HOME)")
	cmd.Flags().StringVar(&sc.format, "format", FormatText, "Output format: text, json, yaml")
	cmd.Flags().StringVar(&sc.chartPath, "chart", "", "Write an HTML chart of the first run to this file")
	cmd.Flags().DurationVar(&sc.linger, "linger", 0, "Keep the metrics endpoint up this long after the runs")
	cmd.Flags().IntVar(&sc.initialLength, "initial-length", config.DefaultInitialLength, "Initial sequence length")
	cmd.Flags().IntVar(&sc.steps, "steps", config.DefaultSteps, "Edits per run")
	cmd.Flags().IntVar(&sc.maxEdit, "max-edit", config.DefaultMaxEdit, "Upper bound for removed and added counts of one edit")
	cmd.Flags().IntVar(&sc.reads, "reads", config.DefaultReadsPerStep, "Random reads compared after every edit")
	cmd.Flags().Uint64Var(&sc.seed, "seed", config.DefaultSeed, "Seed of the first run")
	cmd.Flags().IntVar(&sc.runs, "runs", config.DefaultRuns, "Number of seeded runs")
	cmd.Flags().IntVar(&sc.parallel, "parallel", config.DefaultParallel, "Runs executed concurrently")
	cmd.Flags().BoolVar(&sc.sparse, "sparse", false, "Compare only the random reads until the last edit")
	cmd.Flags().IntVar(&sc.anchorInterval, "anchor-interval", config.DefaultAnchorInterval,
		"Re-derive an anchor at every multiple of this index after an edit (0 = off)")
	cmd.Flags().IntVar(&sc.seedLimit, "seed-limit", config.DefaultSeedLimit, "Inserted elements derived eagerly per edit")
	cmd.Flags().StringVar(&sc.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")

	return cmd
}

// applyFlags overrides configuration values with explicitly set flags.
func (sc *SimulateCommand) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("initial-length") {
		cfg.Workload.InitialLength = sc.initialLength
	}

	if changed("steps") {
		cfg.Workload.Steps = sc.steps
	}

	if changed("max-edit") {
		cfg.Workload.MaxEdit = sc.maxEdit
	}

	if changed("reads") {
		cfg.Workload.ReadsPerStep = sc.reads
	}

	if changed("seed") {
		cfg.Workload.Seed = sc.seed
	}

	if changed("runs") {
		cfg.Workload.Runs = sc.runs
	}

	if changed("parallel") {
		cfg.Workload.Parallel = sc.parallel
	}

	if changed("sparse") {
		cfg.Workload.Sparse = sc.sparse
	}

	if changed("anchor-interval") {
		cfg.List.AnchorInterval = sc.anchorInterval
	}

	if changed("seed-limit") {
		cfg.List.SeedLimit = sc.seedLimit
	}

	if changed("metrics-addr") {
		cfg.Telemetry.MetricsAddr = sc.metricsAddr
	}

	err := cfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	return nil
}

func (sc *SimulateCommand) run(cmd *cobra.Command, _ []string) error {
	err := checkFormat(sc.format)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(sc.configPath)
	if err != nil {
		return err
	}

	err = sc.applyFlags(cmd, cfg)
	if err != nil {
		return err
	}

	tel, err := startTelemetry(cfg, observability.ModeSimulate, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	defer tel.close(ctx, sc.linger)

	outputs, err := simulate(ctx, tel, cfg)
	if err != nil {
		return err
	}

	return sc.report(cmd, outputs)
}

// simulate executes every seeded run and returns their outputs in seed order.
// Individual run failures are recorded in the outputs, not returned.
func simulate(ctx context.Context, tel *telemetry, cfg *config.Config) ([]runOutput, error) {
	ctx, span := tel.providers.Tracer.Start(ctx, "lazyseq.simulate",
		trace.WithAttributes(
			attribute.Int("lazyseq.runs", cfg.Workload.Runs),
			attribute.Int("lazyseq.steps", cfg.Workload.Steps),
		),
	)
	defer span.End()

	outputs := make([]runOutput, cfg.Workload.Runs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workload.Parallel)

	for i := range cfg.Workload.Runs {
		seed := cfg.Workload.Seed + safeconv.MustIntToUint64(i)

		g.Go(func() error {
			outputs[i] = runSeed(gctx, tel, cfg, seed)

			return gctx.Err()
		})
	}

	err := g.Wait()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return outputs, fmt.Errorf("simulate: %w", err)
	}

	return outputs, nil
}

func runSeed(ctx context.Context, tel *telemetry, cfg *config.Config, seed uint64) runOutput {
	ctx, span := tel.providers.Tracer.Start(ctx, "lazyseq.run",
		trace.WithAttributes(attribute.String("lazyseq.seed", strconv.FormatUint(seed, 10))),
	)
	defer span.End()

	ctx = observability.WithRun(ctx, "seed "+strconv.FormatUint(seed, 10))
	logger := tel.logger()

	w := difftest.Workload{
		InitialLength:  cfg.Workload.InitialLength,
		Steps:          cfg.Workload.Steps,
		MaxEdit:        cfg.Workload.MaxEdit,
		ReadsPerStep:   cfg.Workload.ReadsPerStep,
		Seed:           seed,
		AnchorInterval: cfg.List.AnchorInterval,
		SeedLimit:      cfg.List.SeedLimit,
		Sparse:         cfg.Workload.Sparse,
	}

	results, err := w.Run(ctx, func(r difftest.StepResult) {
		tel.metrics.RecordStep(ctx, stepStats(r))
		logger.DebugContext(ctx, "step", "step", r.Step, "edit", r.Replace, "len", r.Len, "anchors", r.Anchors)
	})

	out := runOutput{Seed: seed, Summary: report.Summarize(results), Steps: results}

	if err != nil {
		out.Error = err.Error()

		if errors.Is(err, difftest.ErrMismatch) {
			tel.metrics.RecordMismatch(ctx)
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, "run failed")
		logger.ErrorContext(ctx, "run failed", "error", err)

		return out
	}

	logger.InfoContext(ctx, "run passed",
		"steps", out.Summary.Steps,
		"lazy_recalc_calls", out.Summary.LazyCalls,
		"lazy_read_calls", out.Summary.LazyReadCalls,
		"full_calls", out.Summary.FullCalls)

	return out
}

func stepStats(r difftest.StepResult) observability.StepStats {
	return observability.StepStats{
		Len:               r.Len,
		Anchors:           r.Anchors,
		LazyGenerateCalls: r.LazyGenerateCalls,
		LazyReadCalls:     r.LazyReadCalls,
		FullGenerateCalls: r.FullGenerateCalls,
	}
}

func (sc *SimulateCommand) report(cmd *cobra.Command, outputs []runOutput) error {
	out := cmd.OutOrStdout()

	if sc.chartPath != "" && len(outputs) > 0 {
		err := writeChartFile(sc.chartPath, fmt.Sprintf("seed %d", outputs[0].Seed), outputs[0].Steps)
		if err != nil {
			return err
		}
	}

	failed := 0

	for _, o := range outputs {
		if o.Error != "" {
			failed++
		}
	}

	if sc.format != FormatText {
		err := writeStructured(out, sc.format, outputs)
		if err != nil {
			return err
		}
	} else {
		if len(outputs) == 1 {
			report.WriteTable(out, outputs[0].Steps)
		}

		lines := make([]report.RunLine, len(outputs))
		for i, o := range outputs {
			lines[i] = report.RunLine{Seed: o.Seed, Summary: o.Summary, Error: o.Error}
		}

		report.WriteRuns(out, lines)

		if failed == 0 {
			report.Success(out, "All %d runs agree", len(outputs))
		} else {
			for _, o := range outputs {
				if o.Error != "" {
					report.Failure(out, "seed %d: %s", o.Seed, o.Error)
				}
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRunsFailed, failed, len(outputs))
	}

	return nil
}
