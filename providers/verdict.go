package providers

import (
	"catch-guard/domain"
	errs "catch-guard/errors"
	"encoding/json"
	"fmt"
	"strings"
)

// verdict is the payload shape every backend must return.
type verdict struct {
	Approved   bool     `json:"approved"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason"`
	Categories []string `json:"categories"`
}

// ParseVerdict turns a raw model answer into a Result. Models occasionally
// wrap the JSON in markdown fences or prose, so the payload is extracted
// from the first balanced object. A payload that does not contain one is a
// provider error; an out-of-range confidence is clamped into [0,1].
func ParseVerdict(raw string) (domain.Result, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return domain.Result{}, fmt.Errorf("%w: no JSON object in provider response %q", errs.ErrProviderFailure, truncate(raw, 120))
	}

	var v verdict
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return domain.Result{}, fmt.Errorf("%w: malformed provider response: %v", errs.ErrProviderFailure, err)
	}

	return domain.Result{
		Approved:    v.Approved,
		Confidence:  clamp(v.Confidence),
		Reason:      v.Reason,
		Categories:  v.Categories,
		RawResponse: json.RawMessage(payload),
	}, nil
}

func clamp(confidence float64) float64 {
	switch {
	case confidence != confidence: // NaN
		return 0.0
	case confidence < 0.0:
		return 0.0
	case confidence > 1.0:
		return 1.0
	default:
		return confidence
	}
}

// extractJSON returns the first balanced top-level JSON object in raw.
func extractJSON(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
