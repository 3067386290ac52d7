package domain

import (
	"errors"
	"time"
)

// Label is the fixed set of annotation labels a user can place on a video.
type Label string

const (
	LabelInZone    Label = "in_zone"
	LabelOutOfZone Label = "out_of_zone"
	LabelChange    Label = "change"
)

var ErrAnnotationNotFound = errors.New("annotation not found")
var ErrInvalidLabel = errors.New("invalid annotation label")
var ErrInvalidTimestamp = errors.New("timestamp must be a non-negative number")

// ParseLabel converts a raw string into a Label, reporting whether it is valid.
func ParseLabel(s string) (Label, bool) {
	switch Label(s) {
	case LabelInZone, LabelOutOfZone, LabelChange:
		return Label(s), true
	}
	return "", false
}

// Annotation is a timestamped label attached to a video by a user.
// UserID is fixed at creation time to the creating session's user and is
// never taken from client input.
type Annotation struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	VideoID   string    `json:"video_id" bson:"video_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Timestamp float64   `json:"timestamp" bson:"timestamp"`
	Label     Label     `json:"label" bson:"label"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// AnnotationWithUser is an annotation joined with the creating user's
// identity. Username falls back to "Unknown User" and Email to the empty
// string when the user record no longer exists.
type AnnotationWithUser struct {
	Annotation
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UnknownUsername is the sentinel shown when an annotation's user record
// cannot be resolved.
const UnknownUsername = "Unknown User"
