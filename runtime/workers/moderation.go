package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"catch-guard/contract"
	"catch-guard/domain"
	"catch-guard/domain/event"
	errs "catch-guard/errors"
	"catch-guard/moderation"
	"catch-guard/observability"

	"github.com/abadojack/whatlanggo"
)

// ModerationWorker consumes moderation requests, calls the gateway and
// always emits exactly one completion per request. Provider failures,
// timeouts and rate-limit rejections are converted into a synthetic failure
// result instead of suppressing the completion.
//
// Several instances run concurrently over the same channels; each request
// is handled by exactly one of them.
type ModerationWorker struct {
	gateway     contract.Gateway
	thresholds  moderation.Thresholds
	requests    chan event.Event
	completions chan event.Event
	// operator and admin are optional; nil disables that channel.
	operator contract.Notifier
	admin    contract.Notifier
	monitor  *observability.Monitor
	log      *slog.Logger
}

func NewModerationWorker(
	gateway contract.Gateway,
	thresholds moderation.Thresholds,
	requests, completions chan event.Event,
	operator, admin contract.Notifier,
	monitor *observability.Monitor,
	log *slog.Logger,
) *ModerationWorker {
	return &ModerationWorker{
		gateway:     gateway,
		thresholds:  thresholds,
		requests:    requests,
		completions: completions,
		operator:    operator,
		admin:       admin,
		monitor:     monitor,
		log:         log,
	}
}

func (w ModerationWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case e, ok := <-w.requests:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			switch evt := e.Payload.(type) {
			case event.ModerationRequested:
				if !w.gateway.Enabled(evt.ContentType) {
					w.log.Debug("Moderation disabled for content type", "content_type", evt.ContentType)
					continue
				}
				completed := w.process(ctx, evt)
				select {
				case <-ctx.Done():
					w.log.Debug("Stopping worker")
					return ctx.Err()
				case w.completions <- event.NewCompleted(completed):
					w.monitor.IncrCompleted()
				}
				w.notify(ctx, completed)
			}
		}
	}
}

// process runs one request end to end and always returns a completion,
// synthesizing a failure result when the gateway errors out.
func (w ModerationWorker) process(ctx context.Context, evt event.ModerationRequested) event.ModerationCompleted {
	completed := event.ModerationCompleted{
		ID:          evt.ID,
		ContentType: evt.ContentType,
		ContentID:   evt.ContentID,
		UserID:      evt.UserID,
	}

	if evt.Format == domain.FormatText {
		completed.Lang = whatlanggo.Detect(evt.Content).Lang.Iso6391()
	}

	result, err := w.dispatch(ctx, evt)
	if err != nil {
		result = domain.FailureResult(err)
		if errors.Is(err, errs.ErrRateLimitExceeded) {
			result.Categories = append(result.Categories, domain.CategoryRateLimited)
		}
		w.log.Warn("Moderation failed",
			"content_type", evt.ContentType,
			"content_id", evt.ContentID,
			"error", err)
	}
	completed.Result = result
	return completed
}

func (w ModerationWorker) dispatch(ctx context.Context, evt event.ModerationRequested) (domain.Result, error) {
	switch evt.Format {
	case domain.FormatText:
		return w.gateway.ModerateText(ctx, evt.ContentType, evt.Content)
	case domain.FormatImage:
		return w.gateway.ModerateImage(ctx, evt.ContentType, evt.Content)
	default:
		return domain.Result{}, fmt.Errorf("%w: %q", errs.ErrUnsupportedFormat, evt.Format)
	}
}

// notify fires the side-channel alerts. Best-effort: failures are logged
// and counted, never propagated.
func (w ModerationWorker) notify(ctx context.Context, completed event.ModerationCompleted) {
	result := completed.Result

	if !result.Approved && w.operator != nil {
		if err := w.operator.Send(ctx, operatorAlert(completed)); err != nil {
			w.monitor.IncrNotificationFailure()
			w.log.Warn("Operator notification failed", "error", err)
		}
	}

	if moderation.RequiresManualReview(result, w.thresholds) && w.admin != nil {
		msg := fmt.Sprintf("Manual review needed for %s %s (confidence %.1f%%)",
			completed.ContentType, completed.ContentID, result.Confidence*100)
		if err := w.admin.Send(ctx, msg); err != nil {
			w.monitor.IncrNotificationFailure()
			w.log.Warn("Admin notification failed", "error", err)
		}
	}
}

func operatorAlert(completed event.ModerationCompleted) string {
	result := completed.Result
	user := "unknown"
	if completed.UserID != nil {
		user = fmt.Sprintf("%d", *completed.UserID)
	}
	return fmt.Sprintf(
		"Content flagged\nType: %s\nID: %s\nUser: %s\nApproved: %t\nConfidence: %.1f%%\nReason: %s\nCategories: %s",
		completed.ContentType,
		completed.ContentID,
		user,
		result.Approved,
		result.Confidence*100,
		result.Reason,
		strings.Join(result.Categories, ", "))
}
