package sink

import (
	"context"
	"log/slog"
)

// AdminSink surfaces manual-review requests on the admin log channel.
// It stands in for a real admin dashboard integration.
type AdminSink struct {
	log *slog.Logger
}

func NewAdminSink(log *slog.Logger) *AdminSink {
	return &AdminSink{log: log}
}

func (s *AdminSink) Send(_ context.Context, message string) error {
	s.log.Warn("Admin review requested", "message", message)
	return nil
}
