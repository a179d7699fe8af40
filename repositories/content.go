//go:generate go run go.uber.org/mock/mockgen -source=content.go -destination=../mocks/mock_content_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"catch-guard/domain"
	errs "catch-guard/errors"

	"github.com/dgraph-io/badger/v4"
)

type IContentRepository interface {
	Create(record domain.Record) error
	FindByID(contentType domain.ContentType, id string) (*domain.Record, error)
	UpdateModeration(contentType domain.ContentType, id string, status domain.Status, result domain.Result, at time.Time) error
}

// ContentRepository persists content records in BadgerDB.
// Records are stored as JSON so the provider's raw moderation response
// survives a round trip byte for byte.
type ContentRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewContentRepository(db *badger.DB, log *slog.Logger) *ContentRepository {
	return &ContentRepository{db: db, log: log}
}

// contentKey is formatted as "content:{kind}:{id}". All sub-items of one
// entity share a key, so concurrent write-backs are last write wins.
func contentKey(kind domain.EntityKind, id string) []byte {
	return []byte(fmt.Sprintf("content:%s:%s", kind, id))
}

// Create seeds a record in the pending state, as the application layer does
// right after a content-creation operation succeeds.
func (r ContentRepository) Create(record domain.Record) error {
	if record.ModerationStatus == "" {
		record.ModerationStatus = domain.StatusPending
	}
	bytes, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(contentKey(record.Kind, record.ID), bytes)
	})
}

func (r ContentRepository) FindByID(contentType domain.ContentType, id string) (*domain.Record, error) {
	kind, ok := contentType.Entity()
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownContentType, contentType)
	}

	var record domain.Record
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(contentKey(kind, id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s %s", errs.ErrEntityNotFound, kind, id)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateModeration mutates the moderation fields of an existing record in
// one transaction. The result is stored verbatim.
func (r ContentRepository) UpdateModeration(contentType domain.ContentType, id string, status domain.Status, result domain.Result, at time.Time) error {
	kind, ok := contentType.Entity()
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrUnknownContentType, contentType)
	}

	key := contentKey(kind, id)
	err := r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		var record domain.Record
		if err := item.Value(func(value []byte) error {
			return json.Unmarshal(value, &record)
		}); err != nil {
			return err
		}

		record.ModerationStatus = status
		record.ModerationResult = &result
		record.ModeratedAt = &at

		bytes, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return txn.Set(key, bytes)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s %s", errs.ErrEntityNotFound, kind, id)
	}
	return err
}
