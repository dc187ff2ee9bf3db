package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/response"
	"github.com/unach/escuela-backend/internal/service"
)

// ReportHandler serves the read-only joined views and aggregates.
type ReportHandler struct {
	reportService *service.ReportService
	log           zerolog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		log:           log.With().Str("component", "report_handler").Logger(),
	}
}

// Statistics godoc
// GET /estadisticas
func (h *ReportHandler) Statistics(c *gin.Context) {
	stats, err := h.reportService.Statistics(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// EnrollmentDetails godoc
// GET /alumnos/materias
func (h *ReportHandler) EnrollmentDetails(c *gin.Context) {
	rows, err := h.reportService.EnrollmentDetails(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// TeacherSubjects godoc
// GET /maestros/materias
func (h *ReportHandler) TeacherSubjects(c *gin.Context) {
	rows, err := h.reportService.TeacherSubjects(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// SubjectSummaries godoc
// GET /materias/detalles
func (h *ReportHandler) SubjectSummaries(c *gin.Context) {
	rows, err := h.reportService.SubjectSummaries(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// Transcript godoc
// GET /alumnos/:id/calificaciones
func (h *ReportHandler) Transcript(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rows, err := h.reportService.Transcript(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// Roster godoc
// GET /materias/:id/alumnos
func (h *ReportHandler) Roster(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rows, err := h.reportService.Roster(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}

// SubjectTeachers godoc
// GET /materias/:id/maestros
func (h *ReportHandler) SubjectTeachers(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rows, err := h.reportService.SubjectTeachers(c.Request.Context(), id)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, rows)
}
