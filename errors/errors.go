package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrProviderFailure    = fmt.Errorf("provider failure")
	ErrRateLimitExceeded  = fmt.Errorf("rate limit exceeded")
	ErrUnsupportedFormat  = fmt.Errorf("unsupported content format")
	ErrEntityNotFound     = fmt.Errorf("entity not found")
	ErrUnknownContentType = fmt.Errorf("unknown content type")
	ErrMisconfigured      = fmt.Errorf("moderation misconfigured")
)
