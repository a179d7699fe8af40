package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// CategoryModerationError marks results synthesized after a provider failure.
const CategoryModerationError = "moderation_error"

// CategoryRateLimited is added when the failure was a rate-limit rejection.
const CategoryRateLimited = "rate_limited"

// CategoryPendingReview is emitted by providers that want a human decision
// regardless of their own verdict.
const CategoryPendingReview = "pending_review"

// Result is the verdict of one moderation call.
// A Result exists for every completed request: failure paths synthesize one,
// so downstream consumers never branch on a missing result.
type Result struct {
	Approved   bool     `json:"approved"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason"`
	Categories []string `json:"categories"`
	// RawResponse keeps the provider payload verbatim. Nil on failure paths.
	RawResponse json.RawMessage `json:"raw_response,omitempty"`
}

// FailureResult builds the synthetic verdict for a failed moderation call.
// It is never approved and its zero confidence keeps it below every
// auto-reject threshold, so failures always land in pending_review.
func FailureResult(err error) Result {
	return Result{
		Approved:   false,
		Confidence: 0.0,
		Reason:     fmt.Sprintf("Moderation failed: %v", err),
		Categories: []string{CategoryModerationError},
	}
}

// HasCategory reports whether the provider tagged the verdict with cat.
func (r Result) HasCategory(cat string) bool {
	for _, c := range r.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Record holds the moderation-relevant fields of a content entity.
// Created in pending state when the entity is created, mutated once per
// completed moderation request, never deleted by this subsystem.
type Record struct {
	Kind             EntityKind `json:"kind"`
	ID               string     `json:"id"`
	UserID           *int64     `json:"user_id,omitempty"`
	ModerationStatus Status     `json:"moderation_status"`
	ModerationResult *Result    `json:"moderation_result,omitempty"`
	ModeratedAt      *time.Time `json:"moderated_at,omitempty"`
}

// AuditRecord is one append-only entry of the moderation audit trail.
type AuditRecord struct {
	ContentType ContentType `json:"content_type"`
	ContentID   string      `json:"content_id"`
	UserID      *int64      `json:"user_id,omitempty"`
	Approved    bool        `json:"approved"`
	Confidence  float64     `json:"confidence"`
	Status      Status      `json:"status"`
	Reason      string      `json:"reason"`
	Categories  []string    `json:"categories"`
	Lang        string      `json:"lang,omitempty"`
	At          time.Time   `json:"at"`
}
