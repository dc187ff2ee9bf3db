package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/response"
	"github.com/unach/escuela-backend/internal/service"
)

// serviceErrors maps domain errors to their HTTP status and error code.
var serviceErrors = []struct {
	err    error
	status int
	code   response.ErrCode
}{
	{service.ErrStudentNotFound, http.StatusNotFound, response.ErrStudentNotFound},
	{service.ErrTeacherNotFound, http.StatusNotFound, response.ErrTeacherNotFound},
	{service.ErrSubjectNotFound, http.StatusNotFound, response.ErrSubjectNotFound},
	{service.ErrAssignmentNotFound, http.StatusNotFound, response.ErrAssignmentNotFound},
	{service.ErrEnrollmentNotFound, http.StatusNotFound, response.ErrEnrollmentNotFound},

	{service.ErrTeacherAlreadyAssigned, http.StatusBadRequest, response.ErrTeacherAlreadyAssigned},
	{service.ErrAlreadyEnrolled, http.StatusBadRequest, response.ErrAlreadyEnrolled},
	{service.ErrTeacherNotTeachingSubject, http.StatusBadRequest, response.ErrTeacherNotTeaching},
	{service.ErrAssignmentReferenceMissing, http.StatusBadRequest, response.ErrAssignmentRefMissing},
	{service.ErrEnrollmentReferenceMissing, http.StatusBadRequest, response.ErrEnrollmentRefMissing},
	{service.ErrInvalidGrade, http.StatusBadRequest, response.ErrInvalidGrade},
	{service.ErrAmbiguousEnrollment, http.StatusConflict, response.ErrAmbiguousEnrollment},

	{service.ErrDuplicateSubjectCode, http.StatusConflict, response.ErrConflict},
	{service.ErrHomeroomTeacherAbsent, http.StatusBadRequest, response.ErrReferenceMissing},
	{service.ErrTeacherDeleteConflict, http.StatusConflict, response.ErrTeacherDeleteConflicting},
}

// failWith writes the response for err. Unknown errors are logged and
// answered with 500.
func failWith(c *gin.Context, log zerolog.Logger, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}
	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Str("request_id", response.RequestID(c)).
		Msg("Request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// paramID parses a positive integer path parameter. It writes the 400
// response itself and reports false on failure.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
