package event

import (
	"catch-guard/domain"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	RequestedType Type = "moderation_requested"
	CompletedType Type = "moderation_completed"
)

// Event is the envelope flowing through the pipeline channels.
type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

// ModerationRequested asks whether one piece of text or one image
// attachment is acceptable. Produced once per moderatable sub-item.
type ModerationRequested struct {
	ID          uuid.UUID
	ContentType domain.ContentType
	ContentID   string
	// Content is the raw text, or a file path/URI for images.
	Content string
	Format  domain.Format
	UserID  *int64
}

// ModerationCompleted carries the verdict for exactly one request.
// The Result is always well formed, including on failure paths.
type ModerationCompleted struct {
	ID          uuid.UUID
	ContentType domain.ContentType
	ContentID   string
	Result      domain.Result
	UserID      *int64
	// Lang is the ISO 639-1 code detected on text content, empty for images.
	Lang string
}

func NewRequested(payload ModerationRequested) Event {
	return Event{Type: RequestedType, CreatedAt: time.Now().UTC(), Payload: payload}
}

func NewCompleted(payload ModerationCompleted) Event {
	return Event{Type: CompletedType, CreatedAt: time.Now().UTC(), Payload: payload}
}
