package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zonemark/annotation-system/internal/core/domain"
	"github.com/zonemark/annotation-system/internal/core/ports"
)

// NoteHandler handles HTTP requests for per-video user notes.
type NoteHandler struct {
	service ports.NoteService
}

func NewNoteHandler(service ports.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

type saveNoteRequest struct {
	VideoID string `json:"video_id" validate:"required"`
	Text    string `json:"text"`
}

type noteResponse struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type noteWithUserResponse struct {
	noteResponse
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Save handles POST /v1/notes. It creates or replaces the actor's note on
// the video.
//
// @Summary      Save a note on a video
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveNoteRequest  true  "Note content"
// @Success      200   {object}  noteResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/notes [post]
func (h *NoteHandler) Save(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req saveNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	saved, err := h.service.Save(c.Request().Context(), actor, req.VideoID, req.Text)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toNoteResponse(saved))
}

// List handles GET /v1/notes?video_id=. Admins receive every note on the
// video; a regular user receives their own note or null.
//
// @Summary      List notes on a video
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        video_id  query  string  true  "Video id"
// @Success      200  {array}   noteWithUserResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/notes [get]
func (h *NoteHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	videoID := c.QueryParam("video_id")
	if videoID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "video_id is required")
	}

	result, err := h.service.ListForVideo(c.Request().Context(), actor, videoID)
	if err != nil {
		return err
	}

	if actor.IsAdmin() {
		resp := make([]noteWithUserResponse, 0, len(result.All))
		for _, n := range result.All {
			resp = append(resp, noteWithUserResponse{
				noteResponse: toNoteResponse(&n.Note),
				Username:     n.Username,
				Email:        n.Email,
			})
		}
		return c.JSON(http.StatusOK, resp)
	}

	if result.Own == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, toNoteResponse(result.Own))
}

// Delete handles DELETE /v1/notes/:id (admin or the note's author).
//
// @Summary      Delete a note
// @Tags         notes
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Note id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/notes/{id} [delete]
func (h *NoteHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "note deleted"})
}

func toNoteResponse(n *domain.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		VideoID:   n.VideoID,
		UserID:    n.UserID,
		Text:      n.Text,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
