package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/response"
	"github.com/unach/escuela-backend/internal/service"
)

// ExportHandler streams the grade report as a file download.
type ExportHandler struct {
	exportService *service.ExportService
	log           zerolog.Logger
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService *service.ExportService, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		log:           log.With().Str("component", "export_handler").Logger(),
	}
}

// GradeReport godoc
// GET /reportes/calificaciones?formato=xlsx|pdf
func (h *ExportHandler) GradeReport(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("formato"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidFormat)
		return
	}

	file, err := h.exportService.Render(c.Request.Context(), format)
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	response.Attachment(c, file.Name, file.ContentType, file.Data)
}
