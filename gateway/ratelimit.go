package gateway

import (
	"time"

	"catch-guard/contract"
	errs "catch-guard/errors"

	"github.com/RussellLuo/slidingwindow"
)

func windowFunc() (slidingwindow.Window, slidingwindow.StopFunc) {
	return slidingwindow.NewLocalWindow()
}

// SlidingLimiter caps provider calls with three independent sliding windows.
// A call must pass all three; exceeding any ceiling fails fast.
// The windows are process-wide and shared by every worker.
type SlidingLimiter struct {
	perMinute *slidingwindow.Limiter
	perHour   *slidingwindow.Limiter
	perDay    *slidingwindow.Limiter
}

func NewSlidingLimiter(perMinute, perHour, perDay int64) *SlidingLimiter {
	minute, _ := slidingwindow.NewLimiter(time.Minute, perMinute, windowFunc)
	hour, _ := slidingwindow.NewLimiter(time.Hour, perHour, windowFunc)
	day, _ := slidingwindow.NewLimiter(24*time.Hour, perDay, windowFunc)
	return &SlidingLimiter{perMinute: minute, perHour: hour, perDay: day}
}

// Allow consumes one grant from each window. A rejected call may have
// consumed grants from the windows checked before the failing one; with
// fail-fast semantics that slight overcount is acceptable.
func (l *SlidingLimiter) Allow() error {
	for _, lim := range []*slidingwindow.Limiter{l.perMinute, l.perHour, l.perDay} {
		if !lim.Allow() {
			return errs.ErrRateLimitExceeded
		}
	}
	return nil
}

type unlimited struct{}

func (unlimited) Allow() error { return nil }

// NewUnlimited returns the limiter used when rate limiting is disabled.
func NewUnlimited() contract.RateLimiter { return unlimited{} }
