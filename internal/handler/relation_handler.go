package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/model"
	"github.com/unach/escuela-backend/internal/response"
	"github.com/unach/escuela-backend/internal/service"
	"github.com/unach/escuela-backend/internal/validator"
)

// teacherNone in ?maestro_id= selects the enrollment without teacher.
const teacherNone = "none"

// RelationHandler serves teacher assignments and student enrollments.
type RelationHandler struct {
	relationService *service.RelationService
	log             zerolog.Logger
}

// NewRelationHandler creates a new RelationHandler.
func NewRelationHandler(relationService *service.RelationService, log zerolog.Logger) *RelationHandler {
	return &RelationHandler{
		relationService: relationService,
		log:             log.With().Str("component", "relation_handler").Logger(),
	}
}

// AssignSubject godoc
// POST /maestros/:id/materias
func (h *RelationHandler) AssignSubject(c *gin.Context) {
	teacherID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.AssignSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ts, err := h.relationService.AssignSubject(c.Request.Context(), teacherID, req.SubjectID)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Created(c, ts)
}

// UnassignSubject godoc
// DELETE /maestros/:id/materias/:materiaId
func (h *RelationHandler) UnassignSubject(c *gin.Context) {
	teacherID, ok := paramID(c, "id")
	if !ok {
		return
	}
	subjectID, ok := paramID(c, "materiaId")
	if !ok {
		return
	}

	if err := h.relationService.UnassignSubject(c.Request.Context(), teacherID, subjectID); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.OK(c, "Materia desasignada del maestro")
}

// Enroll godoc
// POST /alumnos/:id/materias
func (h *RelationHandler) Enroll(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.EnrollRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	e, err := h.relationService.Enroll(c.Request.Context(), studentID, req)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Created(c, e)
}

// UpdateGrade godoc
// PUT /alumnos/:id/materias/:materiaId?maestro_id=<id|none>
func (h *RelationHandler) UpdateGrade(c *gin.Context) {
	studentID, subjectID, sel, ok := enrollmentParams(c)
	if !ok {
		return
	}

	var req model.UpdateGradeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	e, err := h.relationService.UpdateGrade(c.Request.Context(), studentID, subjectID, sel, req.Grade)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

// Unenroll godoc
// DELETE /alumnos/:id/materias/:materiaId?maestro_id=<id|none>
func (h *RelationHandler) Unenroll(c *gin.Context) {
	studentID, subjectID, sel, ok := enrollmentParams(c)
	if !ok {
		return
	}

	if err := h.relationService.Unenroll(c.Request.Context(), studentID, subjectID, sel); err != nil {
		failWith(c, h.log, err)
		return
	}
	response.OK(c, "Materia eliminada del alumno")
}

func enrollmentParams(c *gin.Context) (studentID, subjectID int, sel model.TeacherSelector, ok bool) {
	if studentID, ok = paramID(c, "id"); !ok {
		return
	}
	if subjectID, ok = paramID(c, "materiaId"); !ok {
		return
	}
	if sel, ok = parseTeacherSelector(c.Query("maestro_id")); !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
	}
	return
}

// parseTeacherSelector reads the ?maestro_id= query value: empty leaves the
// teacher unspecified, "none" selects the teacher-less enrollment.
func parseTeacherSelector(raw string) (model.TeacherSelector, bool) {
	switch raw {
	case "":
		return model.AnyTeacher, true
	case teacherNone:
		return model.TeacherSelector{Specified: true}, true
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return model.TeacherSelector{}, false
	}
	return model.TeacherSelector{Specified: true, TeacherID: &id}, true
}
