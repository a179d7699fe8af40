package intake

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"catch-guard/domain"
	"catch-guard/domain/event"
	"catch-guard/observability"

	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func drain(requests chan event.Event) []event.ModerationRequested {
	var out []event.ModerationRequested
	for {
		select {
		case evt := <-requests:
			out = append(out, evt.Payload.(event.ModerationRequested))
		default:
			return out
		}
	}
}

// writeJPEG drops a minimal JPEG on disk so sniffing sees a real image.
func writeJPEG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte("JFIF")...)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestIntakeCatchFansOutDescriptionAndPhotos(t *testing.T) {
	req := require.New(t)
	requests := make(chan event.Event, 16)
	it := NewIntake(logs.GetLoggerFromLevel(slog.LevelDebug), observability.NewMonitor(), requests, true)

	dir := t.TempDir()
	first := writeJPEG(t, dir, "pike.jpg")
	second := writeJPEG(t, dir, "release.jpg")

	userID := int64(42)
	it.ContentCreated(CreatedContent{
		Kind:   domain.EntityCatch,
		ID:     "catch-77",
		Text:   "Northern pike, 92cm, released",
		Photos: []string{first, second},
		UserID: &userID,
	})

	built := drain(requests)
	req.Len(built, 3)

	types := lo.Map(built, func(r event.ModerationRequested, _ int) domain.ContentType {
		return r.ContentType
	})
	req.ElementsMatch([]domain.ContentType{
		domain.CatchDescriptions,
		domain.CatchPhotos,
		domain.CatchPhotos,
	}, types)

	for _, r := range built {
		req.Equal("catch-77", r.ContentID)
		req.NotNil(r.UserID)
		req.Equal(int64(42), *r.UserID)
	}
}

func TestIntakeBlankFieldsYieldNothing(t *testing.T) {
	req := require.New(t)
	requests := make(chan event.Event, 16)
	it := NewIntake(logs.GetLoggerFromLevel(slog.LevelDebug), observability.NewMonitor(), requests, true)

	it.ContentCreated(CreatedContent{Kind: domain.EntityCatch, ID: "catch-1", Text: "   "})
	it.ContentCreated(CreatedContent{Kind: domain.EntityPointComment, ID: "pc-1"})

	req.Empty(drain(requests))
}

func TestIntakeCommentBodyOnly(t *testing.T) {
	req := require.New(t)
	requests := make(chan event.Event, 16)
	it := NewIntake(logs.GetLoggerFromLevel(slog.LevelDebug), observability.NewMonitor(), requests, true)

	it.ContentCreated(CreatedContent{
		Kind: domain.EntityCatchComment,
		ID:   "comment-5",
		Text: "What bait did you use?",
	})

	built := drain(requests)
	req.Len(built, 1)
	req.Equal(domain.CatchComments, built[0].ContentType)
	req.Equal(domain.FormatText, built[0].Format)
	req.Nil(built[0].UserID)
}

func TestIntakeAbandonsRemainingPhotosOnBadAttachment(t *testing.T) {
	req := require.New(t)
	requests := make(chan event.Event, 16)
	it := NewIntake(logs.GetLoggerFromLevel(slog.LevelDebug), observability.NewMonitor(), requests, true)

	dir := t.TempDir()
	good := writeJPEG(t, dir, "spot.jpg")
	notImage := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notImage, []byte("just text"), 0o600))
	neverReached := writeJPEG(t, dir, "sunset.jpg")

	it.ContentCreated(CreatedContent{
		Kind:   domain.EntityPoint,
		ID:     "point-9",
		Text:   "Quiet bay, good for perch",
		Photos: []string{good, notImage, neverReached},
	})

	built := drain(requests)
	// Description and the first photo were enqueued before the failure;
	// they stay enqueued. The photo after the bad one is abandoned.
	req.Len(built, 2)
	req.Equal(domain.PointDescriptions, built[0].ContentType)
	req.Equal(domain.PointPhotos, built[1].ContentType)
	req.Equal(good, built[1].Content)
}

func TestIntakeRemoteURIPassedThrough(t *testing.T) {
	req := require.New(t)
	requests := make(chan event.Event, 16)
	it := NewIntake(logs.GetLoggerFromLevel(slog.LevelDebug), observability.NewMonitor(), requests, true)

	it.ContentCreated(CreatedContent{
		Kind:   domain.EntityPoint,
		ID:     "point-2",
		Photos: []string{"https://cdn.example.com/p/point-2.jpg"},
	})

	built := drain(requests)
	req.Len(built, 1)
	req.Equal("https://cdn.example.com/p/point-2.jpg", built[0].Content)
	req.Equal(domain.FormatImage, built[0].Format)
}

func TestIntakeDisabledIsSilent(t *testing.T) {
	req := require.New(t)
	requests := make(chan event.Event, 16)
	it := NewIntake(logs.GetLoggerFromLevel(slog.LevelDebug), observability.NewMonitor(), requests, false)

	it.ContentCreated(CreatedContent{Kind: domain.EntityUser, ID: "user-3", Text: "bio text"})
	req.Empty(drain(requests))
}

func TestIntakeFullQueueDropsInsteadOfBlocking(t *testing.T) {
	req := require.New(t)
	requests := make(chan event.Event, 1)
	monitor := observability.NewMonitor()
	it := NewIntake(logs.GetLoggerFromLevel(slog.LevelDebug), monitor, requests, true)

	it.ContentCreated(CreatedContent{Kind: domain.EntityUser, ID: "user-1", Text: "first"})
	it.ContentCreated(CreatedContent{Kind: domain.EntityUser, ID: "user-2", Text: "second"})

	req.Len(drain(requests), 1)
	req.Equal(uint64(1), monitor.Snapshot().Requested)
}
