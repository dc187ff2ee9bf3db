package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unach/escuela-backend/internal/model"
	"github.com/unach/escuela-backend/internal/response"
	"github.com/unach/escuela-backend/internal/service"
)

// reportRows answers every report from fixed rows: student 1 and subject 3
// exist, everything else is missing.
type reportRows struct {
	enrollments []model.EnrollmentDetail
}

func (reportRows) GetStatistics(context.Context) (*model.Statistics, error) {
	return &model.Statistics{TotalStudents: 1, TotalTeachers: 1, TotalSubjects: 1, AverageGrade: 8.5}, nil
}

func (r reportRows) ListEnrollmentDetails(context.Context) ([]model.EnrollmentDetail, error) {
	return r.enrollments, nil
}

func (reportRows) ListTeacherSubjects(context.Context) ([]model.TeacherSubjectDetail, error) {
	return nil, nil
}

func (reportRows) ListSubjectSummaries(context.Context) ([]model.SubjectSummary, error) {
	return []model.SubjectSummary{{SubjectID: 3, SubjectName: "Historia", TeacherName: model.UnassignedTeacher}}, nil
}

func (reportRows) ListTranscript(context.Context, int) ([]model.TranscriptEntry, error) {
	return nil, nil
}

func (reportRows) ListRoster(context.Context, int) ([]model.RosterEntry, error) {
	return []model.RosterEntry{{SubjectName: "Historia", StudentID: 1, StudentName: "Ana"}}, nil
}

func (reportRows) ListSubjectTeachers(context.Context, int) ([]model.SubjectTeacher, error) {
	return nil, nil
}

func (reportRows) StudentExists(_ context.Context, id int) (bool, error) { return id == 1, nil }
func (reportRows) SubjectExists(_ context.Context, id int) (bool, error) { return id == 3, nil }

func reportEngine() *gin.Engine {
	h := NewReportHandler(service.NewReportService(reportRows{}, nil, 0, zerolog.Nop()), zerolog.Nop())
	r := newEngine()
	r.GET("/estadisticas", h.Statistics)
	r.GET("/alumnos/materias", h.EnrollmentDetails)
	r.GET("/alumnos/:id/calificaciones", h.Transcript)
	r.GET("/materias/:id/alumnos", h.Roster)
	r.GET("/materias/:id/maestros", h.SubjectTeachers)
	return r
}

func TestStatisticsEndpoint(t *testing.T) {
	w := call(t, reportEngine(), http.MethodGet, "/estadisticas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalAlumnos":1`)
	assert.Contains(t, w.Body.String(), `"promedioCalificaciones":8.5`)
}

func TestReportListsNeverNull(t *testing.T) {
	r := reportEngine()
	for _, target := range []string{"/alumnos/materias", "/alumnos/1/calificaciones", "/materias/3/maestros"} {
		w := call(t, r, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, w.Code, target)
		var rows []any
		assert.Nil(t, decodeBody(t, w, &rows), target)
		assert.NotNil(t, rows, target)
		assert.Empty(t, rows, target)
	}
}

func TestPerEntityReportsMissing(t *testing.T) {
	r := reportEngine()
	cases := []struct {
		target string
		status int
		code   response.ErrCode
	}{
		{"/alumnos/9/calificaciones", http.StatusNotFound, response.ErrStudentNotFound},
		{"/materias/9/alumnos", http.StatusNotFound, response.ErrSubjectNotFound},
		{"/materias/9/maestros", http.StatusNotFound, response.ErrSubjectNotFound},
		{"/materias/x/alumnos", http.StatusBadRequest, response.ErrInvalidID},
	}
	for _, tc := range cases {
		w := call(t, r, http.MethodGet, tc.target, nil)
		assert.Equal(t, tc.status, w.Code, tc.target)
		assert.Equal(t, tc.code, decodeBody(t, w, nil).Code, tc.target)
	}
}

func TestRosterEndpoint(t *testing.T) {
	w := call(t, reportEngine(), http.MethodGet, "/materias/3/alumnos", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []model.RosterEntry
	require.Nil(t, decodeBody(t, w, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Ana", rows[0].StudentName)
}
