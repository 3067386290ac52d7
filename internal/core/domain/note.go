package domain

import (
	"errors"
	"time"
)

var ErrNoteNotFound = errors.New("note not found")

// Note is a free-text note a user keeps on a video. At most one note exists
// per (video, user) pair; saving again overwrites the text.
type Note struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	VideoID   string    `json:"video_id" bson:"video_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NoteWithUser is a note joined with the author's identity, used in the
// admin view of all notes on a video.
type NoteWithUser struct {
	Note
	Username string `json:"username"`
	Email    string `json:"email"`
}
