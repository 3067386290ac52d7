package domain

import (
	"errors"
	"time"
)

var ErrVideoNotFound = errors.New("video not found")
var ErrNotVideoFile = errors.New("file must be a video")

// Video is the metadata record for an uploaded video file. The blob itself
// lives behind a BlobStore; Path is the serving path or URL.
type Video struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Title        string    `json:"title" bson:"title"`
	Filename     string    `json:"filename" bson:"filename"`
	OriginalName string    `json:"original_name" bson:"original_name"`
	Path         string    `json:"path" bson:"path"`
	UploadedBy   string    `json:"uploaded_by" bson:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
