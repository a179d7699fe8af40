package repositories

import (
	"encoding/json"
	"testing"
	"time"

	"catch-guard/domain"
	errs "catch-guard/errors"

	db "github.com/mama165/sdk-go/database"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestContentRepository_CreateAndFind(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewContentRepository(badgerDB, log)

	req.NoError(repo.Create(domain.Record{
		Kind:   domain.EntityCatch,
		ID:     "catch-1",
		UserID: lo.ToPtr(int64(42)),
	}))

	fetched, err := repo.FindByID(domain.CatchDescriptions, "catch-1")
	req.NoError(err)
	req.Equal(domain.StatusPending, fetched.ModerationStatus)
	req.Nil(fetched.ModerationResult)
	req.Equal(int64(42), *fetched.UserID)

	// Both sub-item types of a catch resolve to the same record.
	viaPhotos, err := repo.FindByID(domain.CatchPhotos, "catch-1")
	req.NoError(err)
	req.Equal(fetched.ID, viaPhotos.ID)
}

func TestContentRepository_FindMissing(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewContentRepository(badgerDB, log)

	_, err = repo.FindByID(domain.PointComments, "nope")
	req.ErrorIs(err, errs.ErrEntityNotFound)

	_, err = repo.FindByID(domain.ContentType("survey_answers"), "s-1")
	req.ErrorIs(err, errs.ErrUnknownContentType)
}

func TestContentRepository_UpdateModeration(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewContentRepository(badgerDB, log)
	req.NoError(repo.Create(domain.Record{Kind: domain.EntityPoint, ID: "point-7"}))

	raw := json.RawMessage(`{"approved":false,"confidence":0.85,"model":"x"}`)
	result := domain.Result{
		Approved:    false,
		Confidence:  0.85,
		Reason:      "Advertising",
		Categories:  []string{"spam"},
		RawResponse: raw,
	}
	at := time.Now().UTC().Truncate(time.Millisecond)

	req.NoError(repo.UpdateModeration(domain.PointDescriptions, "point-7", domain.StatusRejected, result, at))

	fetched, err := repo.FindByID(domain.PointDescriptions, "point-7")
	req.NoError(err)
	req.Equal(domain.StatusRejected, fetched.ModerationStatus)
	req.NotNil(fetched.ModerationResult)
	// The provider payload survives the round trip verbatim.
	req.JSONEq(string(raw), string(fetched.ModerationResult.RawResponse))
	req.Equal(result.Confidence, fetched.ModerationResult.Confidence)
	req.True(at.Equal(*fetched.ModeratedAt))
}

func TestContentRepository_UpdateIsIdempotent(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewContentRepository(badgerDB, log)
	req.NoError(repo.Create(domain.Record{Kind: domain.EntityUser, ID: "user-9"}))

	result := domain.Result{Approved: true, Confidence: 0.95, Reason: "Safe"}
	at := time.Now().UTC()

	// Redelivered completions re-apply the same update; the record must
	// settle on the same state.
	req.NoError(repo.UpdateModeration(domain.UserBio, "user-9", domain.StatusApproved, result, at))
	req.NoError(repo.UpdateModeration(domain.UserBio, "user-9", domain.StatusApproved, result, at))

	fetched, err := repo.FindByID(domain.UserBio, "user-9")
	req.NoError(err)
	req.Equal(domain.StatusApproved, fetched.ModerationStatus)
}

func TestContentRepository_UpdateMissing(t *testing.T) {
	req := require.New(t)
	_, log, badgerDB, blugeWriter, err := db.SetupBenchmark(t.TempDir())
	req.NoError(err)
	defer db.CleanupDB(badgerDB, blugeWriter)

	repo := NewContentRepository(badgerDB, log)

	err = repo.UpdateModeration(domain.CatchComments, "ghost", domain.StatusApproved, domain.Result{}, time.Now())
	req.ErrorIs(err, errs.ErrEntityNotFound)
}
