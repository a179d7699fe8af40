package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"catch-guard/domain"
	"catch-guard/intake"
	"catch-guard/mocks"
	"catch-guard/moderation"
	"catch-guard/observability"
	"catch-guard/runtime/workers"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func intakeComment(id, body string) intake.CreatedContent {
	return intake.CreatedContent{Kind: domain.EntityCatchComment, ID: id, Text: body}
}

// End to end over real channels: a created comment flows through intake,
// the moderation pool and the distributor pool down to the entity store.
func TestOrchestratorPipeline(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	verdict := domain.Result{Approved: true, Confidence: 0.95, Reason: "Content is safe"}

	gateway := mocks.NewMockGateway(ctrl)
	gateway.EXPECT().Enabled(domain.CatchComments).Return(true).AnyTimes()
	gateway.EXPECT().
		ModerateText(gomock.Any(), domain.CatchComments, "beautiful zander").
		Return(verdict, nil)

	updated := make(chan domain.Status, 1)
	store := mocks.NewMockEntityStore(ctrl)
	store.EXPECT().
		FindByID(domain.CatchComments, "comment-1").
		Return(&domain.Record{Kind: domain.EntityCatchComment, ID: "comment-1"}, nil)
	store.EXPECT().
		UpdateModeration(domain.CatchComments, "comment-1", gomock.Any(), verdict, gomock.Any()).
		DoAndReturn(func(_ domain.ContentType, _ string, status domain.Status, _ domain.Result, _ time.Time) error {
			updated <- status
			return nil
		})

	audit := mocks.NewMockAuditLog(ctrl)
	audit.EXPECT().Append(gomock.Any()).Return(nil).AnyTimes()

	orch := NewOrchestrator(
		log,
		workers.NewSupervisor(log),
		gateway,
		store,
		audit,
		nil, nil,
		moderation.DefaultThresholds(),
		observability.NewMonitor(),
		2, 16,
		0,
		true,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = orch.Start(ctx)
		close(done)
	}()

	orch.Intake().ContentCreated(intakeComment("comment-1", "beautiful zander"))

	select {
	case status := <-updated:
		req.Equal(domain.StatusApproved, status)
	case <-time.After(2 * time.Second):
		req.Fail("pipeline did not reach the entity store")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		req.Fail("orchestrator did not shut down")
	}
}

func TestOrchestratorStop(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	orch := NewOrchestrator(
		log,
		workers.NewSupervisor(log),
		mocks.NewMockGateway(ctrl),
		mocks.NewMockEntityStore(ctrl),
		mocks.NewMockAuditLog(ctrl),
		nil, nil,
		moderation.DefaultThresholds(),
		observability.NewMonitor(),
		1, 4,
		0,
		true,
	)

	done := make(chan struct{})
	go func() {
		_ = orch.Start(context.Background())
		close(done)
	}()

	// Let the workers start before stopping them
	time.Sleep(50 * time.Millisecond)
	orch.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		req.Fail("orchestrator did not stop")
	}
}
