package gateway

import (
	"testing"

	errs "catch-guard/errors"

	"github.com/stretchr/testify/require"
)

func TestSlidingLimiterCeiling(t *testing.T) {
	req := require.New(t)
	limiter := NewSlidingLimiter(3, 1000, 10000)

	for i := 0; i < 3; i++ {
		req.NoError(limiter.Allow())
	}
	req.ErrorIs(limiter.Allow(), errs.ErrRateLimitExceeded)
}

func TestSlidingLimiterTightestWindowWins(t *testing.T) {
	req := require.New(t)
	limiter := NewSlidingLimiter(100, 2, 10000)

	req.NoError(limiter.Allow())
	req.NoError(limiter.Allow())
	req.ErrorIs(limiter.Allow(), errs.ErrRateLimitExceeded)
}

func TestUnlimitedNeverRejects(t *testing.T) {
	req := require.New(t)
	limiter := NewUnlimited()

	for i := 0; i < 500; i++ {
		req.NoError(limiter.Allow())
	}
}
