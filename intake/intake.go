package intake

import (
	"fmt"
	"log/slog"
	"strings"

	"catch-guard/domain"
	"catch-guard/domain/event"
	"catch-guard/observability"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// CreatedContent describes one content-creation outcome as reported by the
// application layer. Only the moderatable fields are carried.
type CreatedContent struct {
	Kind   domain.EntityKind
	ID     string
	Text   string
	Photos []string
	UserID *int64
}

// extractor builds the moderation requests for one sub-item of a created
// entity. On error it returns the requests it managed to build before
// failing; those are still enqueued.
type extractor func(c CreatedContent) ([]event.ModerationRequested, error)

// Intake observes content-creation outcomes and enqueues one moderation
// request per moderatable sub-item. It only enqueues; it never calls a
// provider, so it cannot block the creation path.
type Intake struct {
	log      *slog.Logger
	monitor  *observability.Monitor
	requests chan<- event.Event
	enabled  bool
	// byKind is the static table mapping an entity kind to its
	// moderatable sub-items.
	byKind map[domain.EntityKind][]extractor
}

func NewIntake(log *slog.Logger, monitor *observability.Monitor, requests chan<- event.Event, enabled bool) *Intake {
	return &Intake{
		log:      log,
		monitor:  monitor,
		requests: requests,
		enabled:  enabled,
		byKind: map[domain.EntityKind][]extractor{
			domain.EntityCatch: {
				textExtractor(domain.CatchDescriptions),
				photoExtractor(domain.CatchPhotos),
			},
			domain.EntityCatchComment: {
				textExtractor(domain.CatchComments),
			},
			domain.EntityPoint: {
				textExtractor(domain.PointDescriptions),
				photoExtractor(domain.PointPhotos),
			},
			domain.EntityPointComment: {
				textExtractor(domain.PointComments),
			},
			domain.EntityUser: {
				textExtractor(domain.UserBio),
			},
		},
	}
}

// ContentCreated synthesizes the moderation requests for one created entity.
// Requests are enqueued as they are built; when building a sub-item fails,
// the remaining sub-items of this entity are abandoned and the error is
// logged. Requests already enqueued are not rolled back.
func (i *Intake) ContentCreated(created CreatedContent) {
	if !i.enabled {
		return
	}

	extractors, ok := i.byKind[created.Kind]
	if !ok {
		i.log.Warn("No moderatable sub-items for entity kind", "kind", created.Kind)
		return
	}

	for _, extract := range extractors {
		built, err := extract(created)
		for _, requested := range built {
			i.enqueue(requested)
		}
		if err != nil {
			i.log.Error("Abandoning remaining sub-items",
				"kind", created.Kind,
				"content_id", created.ID,
				"error", err)
			return
		}
	}
}

func (i *Intake) enqueue(requested event.ModerationRequested) {
	select {
	case i.requests <- event.NewRequested(requested):
		i.monitor.IncrRequested()
	default:
		i.log.Warn("Request queue full, moderation request dropped",
			"content_type", requested.ContentType,
			"content_id", requested.ContentID)
	}
}

// textExtractor yields one text request, or nothing when the field is blank.
func textExtractor(contentType domain.ContentType) extractor {
	return func(c CreatedContent) ([]event.ModerationRequested, error) {
		if strings.TrimSpace(c.Text) == "" {
			return nil, nil
		}
		return []event.ModerationRequested{{
			ID:          uuid.New(),
			ContentType: contentType,
			ContentID:   c.ID,
			Content:     c.Text,
			Format:      domain.FormatText,
			UserID:      c.UserID,
		}}, nil
	}
}

// photoExtractor yields one request per attached photo. Remote URIs are
// passed through as-is; local files are sniffed and a non-image attachment
// fails the extraction.
func photoExtractor(contentType domain.ContentType) extractor {
	return func(c CreatedContent) ([]event.ModerationRequested, error) {
		var built []event.ModerationRequested
		for _, photo := range c.Photos {
			if photo == "" {
				continue
			}
			if isLocalPath(photo) {
				mt, err := mimetype.DetectFile(photo)
				if err != nil {
					return built, fmt.Errorf("sniffing %q: %w", photo, err)
				}
				if !strings.HasPrefix(mt.String(), "image/") {
					return built, fmt.Errorf("attachment %q is %s, not an image", photo, mt.String())
				}
			}
			built = append(built, event.ModerationRequested{
				ID:          uuid.New(),
				ContentType: contentType,
				ContentID:   c.ID,
				Content:     photo,
				Format:      domain.FormatImage,
				UserID:      c.UserID,
			})
		}
		return built, nil
	}
}

func isLocalPath(uri string) bool {
	return !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://")
}
