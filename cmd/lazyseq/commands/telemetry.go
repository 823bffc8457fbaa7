// Package commands implements the lazyseq subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Sumatoshi-tech/lazyseq/pkg/config"
	"github.com/Sumatoshi-tech/lazyseq/pkg/observability"
	"github.com/Sumatoshi-tech/lazyseq/pkg/version"
)

const (
	metricsPath       = "/metrics"
	readHeaderTimeout = 5 * time.Second
)

// telemetry bundles what a command needs to report on its work.
type telemetry struct {
	providers observability.Providers
	metrics   *observability.ListMetrics
	server    *http.Server
}

func observabilityConfig(cfg *config.Config, mode observability.AppMode, logOut io.Writer) (observability.Config, error) {
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.Prometheus = cfg.Telemetry.MetricsAddr != ""
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.Format == config.FormatJSON
	obsCfg.LogOutput = logOut

	return obsCfg, nil
}

func startTelemetry(cfg *config.Config, mode observability.AppMode, logOut io.Writer) (*telemetry, error) {
	obsCfg, err := observabilityConfig(cfg, mode, logOut)
	if err != nil {
		return nil, err
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewListMetrics(providers.Meter)
	if err != nil {
		return nil, errors.Join(err, providers.Shutdown(context.Background()))
	}

	tel := &telemetry{providers: providers, metrics: metrics}

	if providers.MetricsHandler != nil {
		ln, listenErr := net.Listen("tcp", cfg.Telemetry.MetricsAddr)
		if listenErr != nil {
			return nil, errors.Join(fmt.Errorf("listen %s: %w", cfg.Telemetry.MetricsAddr, listenErr),
				providers.Shutdown(context.Background()))
		}

		tel.server = serveMetrics(ln, providers.MetricsHandler, providers.Logger)
	}

	return tel, nil
}

// serveMetrics exposes handler on ln until the returned server is shut down.
func serveMetrics(ln net.Listener, handler http.Handler, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(metricsPath, handler)

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: readHeaderTimeout}

	go func() {
		serveErr := srv.Serve(ln)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", serveErr)
		}
	}()

	logger.Info("serving metrics", "addr", "http://"+ln.Addr().String()+metricsPath)

	return srv
}

func (t *telemetry) logger() *slog.Logger {
	return t.providers.Logger
}

// close stops the metrics server after linger and flushes telemetry.
func (t *telemetry) close(ctx context.Context, linger time.Duration) {
	if t.server != nil {
		if linger > 0 {
			t.logger().Info("keeping metrics endpoint up", "linger", linger)

			select {
			case <-time.After(linger):
			case <-ctx.Done():
			}
		}

		shutdownErr := t.server.Shutdown(context.WithoutCancel(ctx))
		if shutdownErr != nil {
			t.logger().Warn("metrics server shutdown failed", "error", shutdownErr)
		}
	}

	shutdownErr := t.providers.Shutdown(context.WithoutCancel(ctx))
	if shutdownErr != nil {
		t.logger().Warn("observability shutdown failed", "error", shutdownErr)
	}
}
