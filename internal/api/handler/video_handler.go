package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zonemark/annotation-system/internal/api/metrics"
	"github.com/zonemark/annotation-system/internal/core/domain"
	"github.com/zonemark/annotation-system/internal/core/ports"
)

// VideoHandler handles HTTP requests for the video catalog.
type VideoHandler struct {
	service       ports.VideoService
	maxUploadSize int64
}

func NewVideoHandler(service ports.VideoService, maxUploadSize int64) *VideoHandler {
	return &VideoHandler{service: service, maxUploadSize: maxUploadSize}
}

// List handles GET /v1/videos.
//
// @Summary      List videos
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   videoResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/videos [get]
func (h *VideoHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	videos, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	resp := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		resp = append(resp, toVideoResponse(v))
	}
	return c.JSON(http.StatusOK, resp)
}

// Upload handles POST /v1/videos (multipart: title, video).
//
// @Summary      Upload a video
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title  formData  string  true  "Video title"
// @Param        video  formData  file    true  "Video file"
// @Success      201    {object}  videoResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/videos [post]
func (h *VideoHandler) Upload(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	title := c.FormValue("title")
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	fileHeader, err := c.FormFile("video")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "video file is required")
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "video file too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable video file")
	}
	defer file.Close()

	created, err := h.service.Upload(c.Request().Context(), actor, ports.UploadVideoInput{
		Title:        title,
		OriginalName: fileHeader.Filename,
		ContentType:  fileHeader.Header.Get("Content-Type"),
		File:         file,
	})
	if err != nil {
		return err
	}

	metrics.VideosUploadedTotal.Inc()

	return c.JSON(http.StatusCreated, toVideoResponse(created))
}

// Delete handles DELETE /v1/videos/:id. Annotations and notes on the video
// are removed first; the response reports how many went with it.
//
// @Summary      Delete a video and its annotations
// @Tags         videos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Video id"
// @Success      200  {object}  deleteVideoResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/videos/{id} [delete]
func (h *VideoHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	result, err := h.service.Delete(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.CascadeDeletedAnnotations.Observe(float64(result.DeletedAnnotations))

	return c.JSON(http.StatusOK, deleteVideoResponse{
		Message:            "video and associated annotations deleted",
		DeletedAnnotations: result.DeletedAnnotations,
		DeletedNotes:       result.DeletedNotes,
	})
}

func toVideoResponse(v *domain.Video) videoResponse {
	return videoResponse{
		ID:           v.ID,
		Title:        v.Title,
		Filename:     v.Filename,
		OriginalName: v.OriginalName,
		Path:         v.Path,
		UploadedBy:   v.UploadedBy,
		CreatedAt:    v.CreatedAt,
	}
}
