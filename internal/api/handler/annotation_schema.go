package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createAnnotationRequest struct {
	VideoID   string  `json:"video_id"  validate:"required"`
	Timestamp float64 `json:"timestamp" validate:"gte=0"`
	Label     string  `json:"label"     validate:"required,oneof=in_zone out_of_zone change"`
}

type editAnnotationRequest struct {
	Timestamp float64 `json:"timestamp" validate:"gte=0"`
	Label     string  `json:"label"     validate:"required,oneof=in_zone out_of_zone change"`
}

type annotationResponse struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	UserID    string    `json:"user_id"`
	Timestamp float64   `json:"timestamp"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// annotationWithUserResponse is the list item: an annotation plus the
// creating user's identity as resolved at read time.
type annotationWithUserResponse struct {
	annotationResponse
	Username string `json:"username"`
	Email    string `json:"email"`
}

type messageResponse struct {
	Message string `json:"message"`
}
