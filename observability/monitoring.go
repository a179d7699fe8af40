package observability

import (
	"sync/atomic"
	"time"
)

// PipelineStats is a point-in-time snapshot of the pipeline counters.
type PipelineStats struct {
	Requested           uint64  `json:"requested"`
	Completed           uint64  `json:"completed"`
	CacheHits           uint64  `json:"cache_hits"`
	RateLimited         uint64  `json:"rate_limited"`
	ProviderErrors      uint64  `json:"provider_errors"`
	DistributorWarnings uint64  `json:"distributor_warnings"`
	NotificationsFailed uint64  `json:"notifications_failed"`
	UptimeSeconds       float64 `json:"uptime_seconds"`
}

// Monitor aggregates pipeline counters. All methods are safe for
// concurrent use by the worker pools.
type Monitor struct {
	startedAt time.Time

	requested           uint64
	completed           uint64
	cacheHits           uint64
	rateLimited         uint64
	providerErrors      uint64
	distributorWarnings uint64
	notificationsFailed uint64
}

func NewMonitor() *Monitor {
	return &Monitor{startedAt: time.Now()}
}

func (m *Monitor) IncrRequested()           { atomic.AddUint64(&m.requested, 1) }
func (m *Monitor) IncrCompleted()           { atomic.AddUint64(&m.completed, 1) }
func (m *Monitor) IncrCacheHit()            { atomic.AddUint64(&m.cacheHits, 1) }
func (m *Monitor) IncrRateLimited()         { atomic.AddUint64(&m.rateLimited, 1) }
func (m *Monitor) IncrProviderError()       { atomic.AddUint64(&m.providerErrors, 1) }
func (m *Monitor) IncrDistributorWarning()  { atomic.AddUint64(&m.distributorWarnings, 1) }
func (m *Monitor) IncrNotificationFailure() { atomic.AddUint64(&m.notificationsFailed, 1) }

func (m *Monitor) Snapshot() PipelineStats {
	return PipelineStats{
		Requested:           atomic.LoadUint64(&m.requested),
		Completed:           atomic.LoadUint64(&m.completed),
		CacheHits:           atomic.LoadUint64(&m.cacheHits),
		RateLimited:         atomic.LoadUint64(&m.rateLimited),
		ProviderErrors:      atomic.LoadUint64(&m.providerErrors),
		DistributorWarnings: atomic.LoadUint64(&m.distributorWarnings),
		NotificationsFailed: atomic.LoadUint64(&m.notificationsFailed),
		UptimeSeconds:       time.Since(m.startedAt).Seconds(),
	}
}
