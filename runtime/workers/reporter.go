package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"catch-guard/observability"

	_ "github.com/shirou/gopsutil"
	"github.com/shirou/gopsutil/process"
)

// ReporterWorker periodically logs the pipeline counters together with the
// process's own cpu and memory usage.
type ReporterWorker struct {
	log      *slog.Logger
	monitor  *observability.Monitor
	interval time.Duration
}

func NewReporterWorker(log *slog.Logger, monitor *observability.Monitor, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, monitor: monitor, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		w.log.Error("Error while retrieving own process", "err", err)
		proc = nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping reporter")
			return nil
		case <-ticker.C:
			stats := w.monitor.Snapshot()
			attrs := []any{
				"requested", stats.Requested,
				"completed", stats.Completed,
				"cache_hits", stats.CacheHits,
				"rate_limited", stats.RateLimited,
				"provider_errors", stats.ProviderErrors,
				"distributor_warnings", stats.DistributorWarnings,
				"notifications_failed", stats.NotificationsFailed,
				"uptime_s", stats.UptimeSeconds,
			}
			if proc != nil {
				if cpu, err := proc.CPUPercent(); err == nil {
					attrs = append(attrs, "cpu_pct", cpu)
				}
				if ram, err := proc.MemoryPercent(); err == nil {
					attrs = append(attrs, "ram_pct", ram)
				}
			}
			w.log.Info("Pipeline report", attrs...)
		}
	}
}
