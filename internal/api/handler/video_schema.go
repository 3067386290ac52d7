package handler

import "time"

type videoResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	Path         string    `json:"path"`
	UploadedBy   string    `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type deleteVideoResponse struct {
	Message            string `json:"message"`
	DeletedAnnotations int64  `json:"deleted_annotations"`
	DeletedNotes       int64  `json:"deleted_notes"`
}
