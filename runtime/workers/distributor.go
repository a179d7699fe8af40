package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"catch-guard/contract"
	"catch-guard/domain"
	"catch-guard/domain/event"
	errs "catch-guard/errors"
	"catch-guard/moderation"
	"catch-guard/observability"
)

// DistributorWorker consumes completions and writes the decision back onto
// the originating content record, then appends an audit entry.
//
// Unknown content types and missing entities are terminal no-ops: logged,
// never retried, never escalated. Redelivered completions are harmless
// since re-applying the same status is idempotent.
type DistributorWorker struct {
	store       contract.EntityStore
	audit       contract.AuditLog
	thresholds  moderation.Thresholds
	completions chan event.Event
	monitor     *observability.Monitor
	log         *slog.Logger
}

func NewDistributorWorker(
	store contract.EntityStore,
	audit contract.AuditLog,
	thresholds moderation.Thresholds,
	completions chan event.Event,
	monitor *observability.Monitor,
	log *slog.Logger,
) *DistributorWorker {
	return &DistributorWorker{
		store:       store,
		audit:       audit,
		thresholds:  thresholds,
		completions: completions,
		monitor:     monitor,
		log:         log,
	}
}

func (w DistributorWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case e, ok := <-w.completions:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			switch evt := e.Payload.(type) {
			case event.ModerationCompleted:
				w.apply(evt)
			}
		}
	}
}

func (w DistributorWorker) apply(evt event.ModerationCompleted) {
	if _, ok := evt.ContentType.Entity(); !ok {
		w.monitor.IncrDistributorWarning()
		w.log.Warn("Unknown content type, dropping completion",
			"content_type", evt.ContentType,
			"content_id", evt.ContentID)
		return
	}

	if _, err := w.store.FindByID(evt.ContentType, evt.ContentID); err != nil {
		if errors.Is(err, errs.ErrEntityNotFound) {
			w.monitor.IncrDistributorWarning()
			w.log.Warn("Entity not found, dropping completion",
				"content_type", evt.ContentType,
				"content_id", evt.ContentID)
			return
		}
		w.monitor.IncrDistributorWarning()
		w.log.Error("Entity lookup failed",
			"content_type", evt.ContentType,
			"content_id", evt.ContentID,
			"error", err)
		return
	}

	result := evt.Result
	status := moderation.Decide(result.Approved, result.Confidence, w.thresholds)
	now := time.Now().UTC()

	if err := w.store.UpdateModeration(evt.ContentType, evt.ContentID, status, result, now); err != nil {
		w.monitor.IncrDistributorWarning()
		w.log.Error("Moderation write-back failed",
			"content_type", evt.ContentType,
			"content_id", evt.ContentID,
			"error", err)
		return
	}

	w.log.Info("Moderation applied",
		"content_type", evt.ContentType,
		"content_id", evt.ContentID,
		"status", status,
		"confidence", result.Confidence)

	// Audit is best-effort and must not undo or block the write-back.
	record := domain.AuditRecord{
		ContentType: evt.ContentType,
		ContentID:   evt.ContentID,
		UserID:      evt.UserID,
		Approved:    result.Approved,
		Confidence:  result.Confidence,
		Status:      status,
		Reason:      result.Reason,
		Categories:  result.Categories,
		Lang:        evt.Lang,
		At:          now,
	}
	if err := w.audit.Append(record); err != nil {
		w.log.Warn("Audit append failed",
			"content_type", evt.ContentType,
			"content_id", evt.ContentID,
			"error", err)
	}
}
