// Package runtime wires the moderation pipeline: it owns the request and
// completion queues and supervises the worker pools consuming them.
// It orchestrates the system without containing business logic or domain rules.
package runtime

import (
	"context"
	"log/slog"
	"time"

	"catch-guard/contract"
	"catch-guard/domain/event"
	"catch-guard/intake"
	"catch-guard/moderation"
	"catch-guard/observability"
	"catch-guard/runtime/workers"
)

type Orchestrator struct {
	log            *slog.Logger
	numWorkers     int
	supervisor     contract.ISupervisor
	gateway        contract.Gateway
	store          contract.EntityStore
	audit          contract.AuditLog
	operator       contract.Notifier
	admin          contract.Notifier
	thresholds     moderation.Thresholds
	monitor        *observability.Monitor
	intake         *intake.Intake
	requests       chan event.Event
	completions    chan event.Event
	reportInterval time.Duration
}

func NewOrchestrator(
	log *slog.Logger,
	supervisor *workers.Supervisor,
	gateway contract.Gateway,
	store contract.EntityStore,
	audit contract.AuditLog,
	operator, admin contract.Notifier,
	thresholds moderation.Thresholds,
	monitor *observability.Monitor,
	numWorkers, bufferSize int,
	reportInterval time.Duration,
	moderationEnabled bool,
) *Orchestrator {
	requests := make(chan event.Event, bufferSize)
	completions := make(chan event.Event, bufferSize)
	return &Orchestrator{
		log:            log,
		numWorkers:     numWorkers,
		supervisor:     supervisor,
		gateway:        gateway,
		store:          store,
		audit:          audit,
		operator:       operator,
		admin:          admin,
		thresholds:     thresholds,
		monitor:        monitor,
		intake:         intake.NewIntake(log, monitor, requests, moderationEnabled),
		requests:       requests,
		completions:    completions,
		reportInterval: reportInterval,
	}
}

// Intake is the entry point the application layer calls after a
// content-creation operation succeeds.
func (o *Orchestrator) Intake() *intake.Intake {
	return o.intake
}

// Start registers the worker pools with the supervisor and runs them.
// It blocks until the context is canceled or Stop is called.
// Both queues are consumed by pools of identical workers; each event is
// handled by exactly one worker, and sub-items of the same entity may
// complete in any order.
func (o *Orchestrator) Start(ctx context.Context) error {
	for i := 0; i < o.numWorkers; i++ {
		o.supervisor.Add(workers.NewModerationWorker(
			o.gateway,
			o.thresholds,
			o.requests, o.completions,
			o.operator, o.admin,
			o.monitor,
			o.log,
		))
		o.supervisor.Add(workers.NewDistributorWorker(
			o.store,
			o.audit,
			o.thresholds,
			o.completions,
			o.monitor,
			o.log,
		))
	}
	if o.reportInterval > 0 {
		o.supervisor.Add(workers.NewReporterWorker(o.log, o.monitor, o.reportInterval))
	}

	o.log.Info("Starting orchestrator and all supervised workers", "workers", o.numWorkers)
	o.supervisor.Run(ctx)
	return nil
}

// Stop initiates a graceful shutdown: the supervision context is canceled
// and Start returns once every worker has exited.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
