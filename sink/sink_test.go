package sink

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestAdminSinkNeverFails(t *testing.T) {
	req := require.New(t)
	s := NewAdminSink(logs.GetLoggerFromLevel(slog.LevelDebug))
	req.NoError(s.Send(context.Background(), "Manual review needed for catch_photos catch-1"))
}

func TestTelegramSinkRejectsEmptyToken(t *testing.T) {
	req := require.New(t)
	_, err := NewTelegramSink("", 1234, logs.GetLoggerFromLevel(slog.LevelDebug))
	req.Error(err)
}
