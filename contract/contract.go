//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"catch-guard/domain"
	"context"
	"reflect"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes, avoiding the need
// for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Provider is one interchangeable AI moderation backend.
// Implementations return a well-formed Result or an error wrapping
// ErrProviderFailure; they never return both.
type Provider interface {
	ID() string
	ModerateText(ctx context.Context, contentType domain.ContentType, content string) (domain.Result, error)
	ModerateImage(ctx context.Context, contentType domain.ContentType, content string) (domain.Result, error)
}

// Gateway fronts the providers with rate limiting, caching and retries.
type Gateway interface {
	Enabled(contentType domain.ContentType) bool
	ModerateText(ctx context.Context, contentType domain.ContentType, content string) (domain.Result, error)
	ModerateImage(ctx context.Context, contentType domain.ContentType, content string) (domain.Result, error)
}

// EntityStore is the content entity collaborator the distributor writes to.
type EntityStore interface {
	FindByID(contentType domain.ContentType, id string) (*domain.Record, error)
	UpdateModeration(contentType domain.ContentType, id string, status domain.Status, result domain.Result, at time.Time) error
}

// AuditLog is append-only and best-effort.
type AuditLog interface {
	Append(record domain.AuditRecord) error
}

// Notifier is a fire-and-forget message sink. Failures are logged by the
// caller, never propagated.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// RateLimiter guards provider calls with process-wide budgets.
// Allow returns ErrRateLimitExceeded when any window is exhausted.
type RateLimiter interface {
	Allow() error
}

// ResultCache short-circuits provider calls for content already judged.
type ResultCache interface {
	Get(contentType domain.ContentType, content string) (domain.Result, bool)
	Set(contentType domain.ContentType, content string, result domain.Result)
}
