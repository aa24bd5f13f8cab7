package main

import (
	"go.uber.org/zap"

	"ntdump/internal/config"
	"ntdump/internal/metrics"
	"ntdump/internal/metrics/datadog"
	"ntdump/internal/metrics/prompush"
)

// setupMetrics installs the configured backend and returns the flush to run
// when the command finishes.
func setupMetrics(run config.Run, log *zap.Logger) func() {
	switch run.Metrics.Backend {
	case "pushgateway":
		gwURL := run.Metrics.PushgatewayURL
		if gwURL == "" {
			gwURL = config.DefaultGateway
		}
		b, err := prompush.NewBackend(run.Job, gwURL)
		if err != nil {
			log.Warn("metrics: pushgateway backend unavailable; using nop", zap.Error(err))
			return nil
		}
		metrics.SetBackend(b)
		log.Info("metrics enabled", zap.String("backend", "pushgateway"), zap.String("url", gwURL), zap.String("job", run.Job))
		return flushFunc(log)
	case "datadog":
		addr := run.Metrics.DogStatsDAddr
		if addr == "" {
			addr = config.DefaultDogStatsD
		}
		b, err := datadog.NewBackend(datadog.Config{Addr: addr, GlobalTags: run.Metrics.Tags})
		if err != nil {
			log.Warn("metrics: datadog backend unavailable; using nop", zap.Error(err))
			return nil
		}
		metrics.SetBackend(b)
		log.Info("metrics enabled", zap.String("backend", "datadog"), zap.String("addr", addr), zap.String("job", run.Job))
		return flushFunc(log)
	case "", "none":
		log.Debug("metrics disabled")
	default:
		log.Warn("metrics: unknown backend; metrics disabled", zap.String("backend", run.Metrics.Backend))
	}
	return nil
}

func flushFunc(log *zap.Logger) func() {
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics: flush failed", zap.Error(err))
		}
	}
}
