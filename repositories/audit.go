//go:generate go run go.uber.org/mock/mockgen -source=audit.go -destination=../mocks/mock_audit_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"catch-guard/domain"

	"github.com/blugelabs/bluge"
	"github.com/blugelabs/bluge/index"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IAuditRepository interface {
	Append(record domain.AuditRecord) error
	Recent(limit int) ([]domain.AuditRecord, error)
	Search(ctx context.Context, query string, limit int) ([]domain.AuditRecord, uint64, error)
	Flush() error
}

// AuditRepository is the append-only moderation trail.
// Entries are persisted in BadgerDB and indexed in Bluge so operators can
// full-text search the reasons behind past decisions.
type AuditRepository struct {
	db     *badger.DB
	writer *bluge.Writer
	log    *slog.Logger

	mu         sync.Mutex
	batch      *index.Batch
	pending    int
	flushEvery int
}

func NewAuditRepository(db *badger.DB, writer *bluge.Writer, log *slog.Logger, flushEvery int) *AuditRepository {
	return &AuditRepository{
		db:         db,
		writer:     writer,
		log:        log,
		batch:      index.NewBatch(),
		flushEvery: flushEvery,
	}
}

// auditKey is formatted as "audit:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding.
//  2. Prevent data loss via the UUID disambiguator if two entries land
//     on the same nanosecond.
func auditKey(record domain.AuditRecord, id uuid.UUID) string {
	return fmt.Sprintf("audit:%019d:%s", record.At.UnixNano(), id)
}

func (a *AuditRepository) Append(record domain.AuditRecord) error {
	key := auditKey(record, uuid.New())
	bytes, err := json.Marshal(record)
	if err != nil {
		return err
	}

	if err := a.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	}); err != nil {
		return err
	}

	doc := bluge.NewDocument(key).
		AddField(bluge.NewTextField("reason", record.Reason).StoreValue()).
		AddField(bluge.NewTextField("categories", strings.Join(record.Categories, " ")).StoreValue()).
		AddField(bluge.NewKeywordField("content_type", string(record.ContentType)).StoreValue()).
		AddField(bluge.NewKeywordField("content_id", record.ContentID).StoreValue()).
		AddField(bluge.NewKeywordField("status", string(record.Status)).StoreValue())

	a.mu.Lock()
	defer a.mu.Unlock()
	a.batch.Update(doc.ID(), doc)
	a.pending++
	if a.pending >= a.flushEvery {
		return a.flushLocked()
	}
	return nil
}

// Flush pushes the pending index batch to Bluge. Call it before searching
// and on shutdown.
func (a *AuditRepository) Flush() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flushLocked()
}

func (a *AuditRepository) flushLocked() error {
	if a.pending == 0 {
		return nil
	}
	if err := a.writer.Batch(a.batch); err != nil {
		return err
	}
	a.batch.Reset()
	a.pending = 0
	return nil
}

// Recent returns the newest entries, most recent first.
func (a *AuditRepository) Recent(limit int) ([]domain.AuditRecord, error) {
	var records []domain.AuditRecord
	err := a.db.View(func(txn *badger.Txn) error {
		prefix := []byte("audit:")
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Reverse iteration starts past the newest key.
		seekKey := append([]byte{}, prefix...)
		seekKey = append(seekKey, []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix) && len(records) < limit; it.Next() {
			var record domain.AuditRecord
			err := it.Item().Value(func(value []byte) error {
				return json.Unmarshal(value, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Search runs a full-text match over the indexed reasons and categories,
// fetching the full entries back from BadgerDB by their key.
func (a *AuditRepository) Search(ctx context.Context, query string, limit int) ([]domain.AuditRecord, uint64, error) {
	reader, err := a.writer.Reader()
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = reader.Close()
	}()

	q := bluge.NewBooleanQuery().AddShould(
		bluge.NewMatchQuery(query).SetField("reason"),
		bluge.NewMatchQuery(query).SetField("categories"),
	).SetMinShould(1)
	request := bluge.NewTopNSearch(limit, q).WithStandardAggregations()

	dmi, err := reader.Search(ctx, request)
	if err != nil {
		return nil, 0, err
	}

	var keys []string
	next, err := dmi.Next()
	for err == nil && next != nil {
		visitErr := next.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				keys = append(keys, string(value))
			}
			return true
		})
		if visitErr != nil {
			return nil, 0, visitErr
		}
		next, err = dmi.Next()
	}
	if err != nil {
		return nil, 0, err
	}

	records := make([]domain.AuditRecord, 0, len(keys))
	err = a.db.View(func(txn *badger.Txn) error {
		for _, key := range keys {
			item, err := txn.Get([]byte(key))
			if err != nil {
				a.log.Warn("Indexed audit entry missing from badger", "key", key)
				continue
			}
			var record domain.AuditRecord
			if err := item.Value(func(value []byte) error {
				return json.Unmarshal(value, &record)
			}); err != nil {
				return err
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return records, dmi.Aggregations().Count(), nil
}
