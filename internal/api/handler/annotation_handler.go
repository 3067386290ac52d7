package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zonemark/annotation-system/internal/api/metrics"
	"github.com/zonemark/annotation-system/internal/core/domain"
	"github.com/zonemark/annotation-system/internal/core/ports"
)

// AnnotationHandler handles HTTP requests for annotation operations.
type AnnotationHandler struct {
	service ports.AnnotationService
	videos  ports.VideoService
}

func NewAnnotationHandler(service ports.AnnotationService, videos ports.VideoService) *AnnotationHandler {
	return &AnnotationHandler{service: service, videos: videos}
}

// Create handles POST /v1/annotations.
//
// @Summary      Create an annotation
// @Tags         annotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAnnotationRequest  true  "Annotation details"
// @Success      201   {object}  annotationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/annotations [post]
func (h *AnnotationHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createAnnotationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), actor, ports.CreateAnnotationInput{
		VideoID:   req.VideoID,
		Timestamp: req.Timestamp,
		Label:     req.Label,
	})
	if err != nil {
		return err
	}

	metrics.AnnotationsCreatedTotal.WithLabelValues(string(created.Label)).Inc()

	return c.JSON(http.StatusCreated, toAnnotationResponse(created))
}

// List handles GET /v1/annotations?video_id=.
//
// @Summary      List annotations for a video
// @Tags         annotations
// @Produce      json
// @Security     BearerAuth
// @Param        video_id  query     string  true  "Video id"
// @Success      200       {array}   annotationWithUserResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /v1/annotations [get]
func (h *AnnotationHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	videoID := c.QueryParam("video_id")
	if videoID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "video_id is required")
	}

	rows, err := h.service.ListForVideo(c.Request().Context(), actor, videoID)
	if err != nil {
		return err
	}

	resp := make([]annotationWithUserResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, annotationWithUserResponse{
			annotationResponse: toAnnotationResponse(&row.Annotation),
			Username:           row.Username,
			Email:              row.Email,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// Counts handles GET /v1/annotations/counts. Videos without annotations
// report an explicit 0 so clients can render a badge for every video.
//
// @Summary      Annotation counts per video
// @Tags         annotations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Failure      401  {object}  errorResponse
// @Router       /v1/annotations/counts [get]
func (h *AnnotationHandler) Counts(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	counts, err := h.service.CountsByVideo(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	videos, err := h.videos.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	merged := make(map[string]int64, len(videos))
	for _, v := range videos {
		merged[v.ID] = counts[v.ID]
	}
	return c.JSON(http.StatusOK, merged)
}

// Edit handles PUT /v1/annotations/:id (admin only).
//
// @Summary      Edit an annotation's timestamp and label
// @Tags         annotations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Annotation id"
// @Param        body  body      editAnnotationRequest  true  "New values"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/annotations/{id} [put]
func (h *AnnotationHandler) Edit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req editAnnotationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.Edit(c.Request().Context(), actor, ports.EditAnnotationInput{
		ID:        c.Param("id"),
		Timestamp: req.Timestamp,
		Label:     req.Label,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "annotation updated"})
}

// Delete handles DELETE /v1/annotations/:id. Deleting an id that no longer
// exists returns 404 every time, never an error on repeat.
//
// @Summary      Delete an annotation
// @Tags         annotations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Annotation id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/annotations/{id} [delete]
func (h *AnnotationHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}

	metrics.AnnotationsDeletedTotal.WithLabelValues(string(actor.Role)).Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "annotation deleted"})
}

func toAnnotationResponse(a *domain.Annotation) annotationResponse {
	return annotationResponse{
		ID:        a.ID,
		VideoID:   a.VideoID,
		UserID:    a.UserID,
		Timestamp: a.Timestamp,
		Label:     string(a.Label),
		CreatedAt: a.CreatedAt,
	}
}
