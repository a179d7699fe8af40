package repositories

import (
	"fmt"
	"testing"
	"time"

	"catch-guard/domain"

	db "github.com/mama165/sdk-go/database"
	"github.com/stretchr/testify/require"
)

func auditEntry(id string, at time.Time, reason string) domain.AuditRecord {
	return domain.AuditRecord{
		ContentType: domain.CatchDescriptions,
		ContentID:   id,
		Approved:    false,
		Confidence:  0.85,
		Status:      domain.StatusRejected,
		Reason:      reason,
		Categories:  []string{"spam"},
		At:          at,
	}
}

func TestAuditRepository_AppendAndRecent(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewAuditRepository(badgerDB, blugeWriter, log, 10)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		entry := auditEntry(fmt.Sprintf("catch-%d", i), base.Add(time.Duration(i)*time.Second), "Spam link detected")
		req.NoError(repo.Append(entry))
	}

	recent, err := repo.Recent(3)
	req.NoError(err)
	req.Len(recent, 3)
	// Most recent first
	req.Equal("catch-4", recent[0].ContentID)
	req.Equal("catch-3", recent[1].ContentID)
	req.Equal("catch-2", recent[2].ContentID)
}

func TestAuditRepository_Search(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewAuditRepository(badgerDB, blugeWriter, log, 10)

	now := time.Now().UTC()
	req.NoError(repo.Append(auditEntry("catch-1", now, "Advertising for fishing gear shop")))
	req.NoError(repo.Append(auditEntry("catch-2", now.Add(time.Second), "Profanity in description")))
	req.NoError(repo.Append(auditEntry("catch-3", now.Add(2*time.Second), "Mentions illegal electrofishing techniques")))

	req.NoError(repo.Flush())
	time.Sleep(50 * time.Millisecond)

	results, total, err := repo.Search(ctx, "electrofishing", 10)
	req.NoError(err)
	req.Equal(uint64(1), total)
	req.Len(results, 1)
	req.Equal("catch-3", results[0].ContentID)
}

func TestAuditRepository_FlushEveryThreshold(t *testing.T) {
	req := require.New(t)
	ctx, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	// Threshold of 2: the second append flushes the batch on its own.
	repo := NewAuditRepository(badgerDB, blugeWriter, log, 2)

	now := time.Now().UTC()
	req.NoError(repo.Append(auditEntry("catch-1", now, "Toxic comment")))
	req.NoError(repo.Append(auditEntry("catch-2", now.Add(time.Second), "Toxic comment")))
	time.Sleep(50 * time.Millisecond)

	_, total, err := repo.Search(ctx, "toxic", 10)
	req.NoError(err)
	req.Equal(uint64(2), total)
}
