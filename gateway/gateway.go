package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"catch-guard/contract"
	"catch-guard/domain"
	errs "catch-guard/errors"
	"catch-guard/observability"
	"catch-guard/providers"

	"github.com/cenkalti/backoff/v4"
)

// Gateway fronts the moderation providers. Every call goes through the
// result cache, then the shared rate limiter, then the provider under a
// per-call timeout and the retry policy. A cache hit bypasses the rate
// limiter entirely.
type Gateway struct {
	registry      *providers.Registry
	limiter       contract.RateLimiter
	cache         contract.ResultCache
	monitor       *observability.Monitor
	log           *slog.Logger
	timeout       time.Duration
	retryAttempts uint64
	retryDelay    time.Duration
}

func NewGateway(
	registry *providers.Registry,
	limiter contract.RateLimiter,
	cache contract.ResultCache,
	monitor *observability.Monitor,
	log *slog.Logger,
	timeout time.Duration,
	retryAttempts int,
	retryDelay time.Duration,
) *Gateway {
	return &Gateway{
		registry:      registry,
		limiter:       limiter,
		cache:         cache,
		monitor:       monitor,
		log:           log,
		timeout:       timeout,
		retryAttempts: uint64(retryAttempts),
		retryDelay:    retryDelay,
	}
}

func (g *Gateway) Enabled(contentType domain.ContentType) bool {
	return g.registry.Enabled(contentType)
}

func (g *Gateway) ModerateText(ctx context.Context, contentType domain.ContentType, content string) (domain.Result, error) {
	return g.moderate(ctx, contentType, content, domain.FormatText)
}

func (g *Gateway) ModerateImage(ctx context.Context, contentType domain.ContentType, content string) (domain.Result, error) {
	return g.moderate(ctx, contentType, content, domain.FormatImage)
}

func (g *Gateway) moderate(ctx context.Context, contentType domain.ContentType, content string, format domain.Format) (domain.Result, error) {
	if cached, ok := g.cache.Get(contentType, content); ok {
		g.monitor.IncrCacheHit()
		g.log.Debug("Cache hit", "content_type", contentType)
		return cached, nil
	}

	if err := g.limiter.Allow(); err != nil {
		g.monitor.IncrRateLimited()
		return domain.Result{}, err
	}

	provider, err := g.registry.Resolve(contentType)
	if err != nil {
		return domain.Result{}, err
	}

	// Bound the whole retry loop, not each attempt: a stuck provider must
	// not stall a worker past the configured timeout.
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := backoff.RetryWithData(func() (domain.Result, error) {
		res, callErr := g.dispatch(callCtx, provider, contentType, content, format)
		if callErr != nil && !retryable(callErr) {
			return domain.Result{}, backoff.Permanent(callErr)
		}
		return res, callErr
	}, g.newBackOff(callCtx))
	if err != nil {
		g.monitor.IncrProviderError()
		g.log.Warn("Provider call failed",
			"provider", provider.ID(),
			"content_type", contentType,
			"format", format,
			"error", err)
		return domain.Result{}, err
	}

	g.cache.Set(contentType, content, result)
	return result, nil
}

func (g *Gateway) dispatch(ctx context.Context, provider contract.Provider, contentType domain.ContentType, content string, format domain.Format) (domain.Result, error) {
	switch format {
	case domain.FormatText:
		return provider.ModerateText(ctx, contentType, content)
	case domain.FormatImage:
		return provider.ModerateImage(ctx, contentType, content)
	default:
		return domain.Result{}, fmt.Errorf("%w: %q", errs.ErrUnsupportedFormat, format)
	}
}

func (g *Gateway) newBackOff(ctx context.Context) backoff.BackOffContext {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = g.retryDelay
	return backoff.WithContext(backoff.WithMaxRetries(expo, g.retryAttempts), ctx)
}

// retryable excludes the failures another attempt cannot fix.
func retryable(err error) bool {
	return !errors.Is(err, errs.ErrUnsupportedFormat) &&
		!errors.Is(err, errs.ErrUnknownContentType)
}
