package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zonemark/annotation-system/internal/api/metrics"
	"github.com/zonemark/annotation-system/internal/core/ports"
)

// ExportHandler serves CSV exports of a video's annotations.
type ExportHandler struct {
	service ports.ExportService
}

func NewExportHandler(service ports.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export handles GET /v1/export?video_id=&user_id=. Admins export all
// annotations (optionally narrowed to one user); a regular user can only
// export their own.
//
// @Summary      Export a video's annotations as CSV
// @Tags         export
// @Produce      text/csv
// @Security     BearerAuth
// @Param        video_id  query  string  true   "Video id"
// @Param        user_id   query  string  false  "Restrict to one user's annotations"
// @Success      200  {string}  string  "CSV payload"
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/export [get]
func (h *ExportHandler) Export(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	videoID := c.QueryParam("video_id")
	if videoID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "video_id is required")
	}

	csv, err := h.service.ExportCSV(c.Request().Context(), actor, videoID, c.QueryParam("user_id"))
	if err != nil {
		return err
	}

	// The payload is header-newline-terminated when empty and newline-joined
	// otherwise, so data rows = newlines minus the trailing one if present.
	rows := bytes.Count(csv, []byte("\n"))
	if bytes.HasSuffix(csv, []byte("\n")) {
		rows--
	}
	metrics.ExportsTotal.Inc()
	metrics.ExportRows.Observe(float64(rows))

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="annotations_%s.csv"`, videoID))
	return c.Blob(http.StatusOK, "text/csv", csv)
}
