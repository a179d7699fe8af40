package domain

// ContentType identifies one moderatable sub-item of a content entity.
// Each entity may fan out to several content types (a catch produces
// catch_descriptions plus one catch_photos per attachment).
type ContentType string

const (
	CatchPhotos       ContentType = "catch_photos"
	CatchComments     ContentType = "catch_comments"
	CatchDescriptions ContentType = "catch_descriptions"
	PointDescriptions ContentType = "point_descriptions"
	PointPhotos       ContentType = "point_photos"
	PointComments     ContentType = "point_comments"
	UserBio           ContentType = "user_bio"
)

// EntityKind is the content record a moderation decision writes back to.
type EntityKind string

const (
	EntityCatch        EntityKind = "catch"
	EntityCatchComment EntityKind = "catch_comment"
	EntityPoint        EntityKind = "point"
	EntityPointComment EntityKind = "point_comment"
	EntityUser         EntityKind = "user"
)

// entityByContentType maps every sub-item back onto its owning record.
var entityByContentType = map[ContentType]EntityKind{
	CatchPhotos:       EntityCatch,
	CatchDescriptions: EntityCatch,
	CatchComments:     EntityCatchComment,
	PointPhotos:       EntityPoint,
	PointDescriptions: EntityPoint,
	PointComments:     EntityPointComment,
	UserBio:           EntityUser,
}

// Entity resolves the record kind a completed moderation targets.
// The second value is false for content types this pipeline does not know,
// which the distributor treats as a terminal no-op.
func (c ContentType) Entity() (EntityKind, bool) {
	kind, ok := entityByContentType[c]
	return kind, ok
}

func (c ContentType) Valid() bool {
	_, ok := entityByContentType[c]
	return ok
}

// Format tells the gateway which provider operation to dispatch.
type Format string

const (
	FormatText  Format = "text"
	FormatImage Format = "image"
)

// Status is the moderation lifecycle state of a content record.
type Status string

const (
	StatusPending       Status = "pending"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusPendingReview Status = "pending_review"
)
