package moderation

import "catch-guard/domain"

// Thresholds are the confidence cutoffs of the decision policy.
type Thresholds struct {
	AutoApprove  float64
	AutoReject   float64
	ManualReview float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{AutoApprove: 0.9, AutoReject: 0.8, ManualReview: 0.7}
}

// Decide maps a provider verdict to a content status.
//
// The branch table is intentionally asymmetric: an approved verdict is never
// auto-rejected however low its confidence, and a rejected verdict is never
// auto-approved. Everything below the matching threshold falls through to
// pending_review for a human decision.
func Decide(approved bool, confidence float64, t Thresholds) domain.Status {
	switch {
	case approved && confidence >= t.AutoApprove:
		return domain.StatusApproved
	case !approved && confidence >= t.AutoReject:
		return domain.StatusRejected
	default:
		return domain.StatusPendingReview
	}
}

// RequiresManualReview reports whether the verdict should be escalated to
// the admin channel: low confidence combined with an explicit
// pending_review category from the provider.
func RequiresManualReview(r domain.Result, t Thresholds) bool {
	return r.Confidence < t.ManualReview && r.HasCategory(domain.CategoryPendingReview)
}
