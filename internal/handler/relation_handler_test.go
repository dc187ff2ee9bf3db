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
	"github.com/unach/escuela-backend/internal/repository"
	"github.com/unach/escuela-backend/internal/response"
	"github.com/unach/escuela-backend/internal/service"
)

func TestParseTeacherSelector(t *testing.T) {
	sel, ok := parseTeacherSelector("")
	require.True(t, ok)
	assert.False(t, sel.Specified)

	sel, ok = parseTeacherSelector("none")
	require.True(t, ok)
	assert.True(t, sel.Specified)
	assert.Nil(t, sel.TeacherID)

	sel, ok = parseTeacherSelector("12")
	require.True(t, ok)
	assert.True(t, sel.Specified)
	assert.Equal(t, 12, *sel.TeacherID)

	for _, bad := range []string{"abc", "0", "-3"} {
		_, ok = parseTeacherSelector(bad)
		assert.False(t, ok, bad)
	}
}

// enrollmentTable backs the relation handler tests. Only the paths the
// handler tests reach are meaningful.
type enrollmentTable struct {
	assigned map[[2]int]bool
	rows     []model.Enrollment
}

func (e *enrollmentTable) WithinTx(_ context.Context, fn func(repository.RelationStore) error) error {
	return fn(e)
}
func (e *enrollmentTable) StudentExists(_ context.Context, id int) (bool, error) { return id == 1, nil }
func (e *enrollmentTable) TeacherExists(_ context.Context, id int) (bool, error) { return id == 5, nil }
func (e *enrollmentTable) SubjectExists(_ context.Context, id int) (bool, error) { return id == 3, nil }
func (e *enrollmentTable) AssignmentExists(_ context.Context, t, s int) (bool, error) {
	return e.assigned[[2]int{t, s}], nil
}
func (e *enrollmentTable) InsertAssignment(_ context.Context, t, s int) (*model.TeacherSubject, error) {
	e.assigned[[2]int{t, s}] = true
	return &model.TeacherSubject{ID: 1, TeacherID: t, SubjectID: s}, nil
}
func (e *enrollmentTable) DeleteAssignment(context.Context, int, int) (int64, error) { return 0, nil }
func (e *enrollmentTable) EnrollmentExists(_ context.Context, st, su int, teacher *int) (bool, error) {
	for _, r := range e.rows {
		if r.StudentID == st && r.SubjectID == su && (r.TeacherID == nil) == (teacher == nil) {
			return true, nil
		}
	}
	return false, nil
}
func (e *enrollmentTable) InsertEnrollment(_ context.Context, en *model.Enrollment) error {
	en.ID = len(e.rows) + 1
	e.rows = append(e.rows, *en)
	return nil
}
func (e *enrollmentTable) FindEnrollments(_ context.Context, st, su int, sel model.TeacherSelector) ([]model.Enrollment, error) {
	var out []model.Enrollment
	for _, r := range e.rows {
		if r.StudentID != st || r.SubjectID != su {
			continue
		}
		if sel.Specified && (r.TeacherID == nil) != (sel.TeacherID == nil) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
func (e *enrollmentTable) UpdateEnrollmentGrade(_ context.Context, id int, g *float64) (*model.Enrollment, error) {
	for i := range e.rows {
		if e.rows[i].ID == id {
			e.rows[i].Grade = g
			row := e.rows[i]
			return &row, nil
		}
	}
	return nil, repository.ErrNotFound
}
func (e *enrollmentTable) DeleteEnrollment(context.Context, int) error { return nil }

func relationEngine(table *enrollmentTable) *gin.Engine {
	h := NewRelationHandler(service.NewRelationService(table, silentEvents{}, zerolog.Nop()), zerolog.Nop())
	r := newEngine()
	r.POST("/maestros/:id/materias", h.AssignSubject)
	r.DELETE("/maestros/:id/materias/:materiaId", h.UnassignSubject)
	r.POST("/alumnos/:id/materias", h.Enroll)
	r.PUT("/alumnos/:id/materias/:materiaId", h.UpdateGrade)
	r.DELETE("/alumnos/:id/materias/:materiaId", h.Unenroll)
	return r
}

func TestRelationHandlerFlows(t *testing.T) {
	table := &enrollmentTable{assigned: map[[2]int]bool{}}
	r := relationEngine(table)

	w := call(t, r, http.MethodPost, "/alumnos/1/materias", gin.H{"materia_id": 3, "maestro_id": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrTeacherNotTeaching, decodeBody(t, w, nil).Code)

	w = call(t, r, http.MethodPost, "/maestros/5/materias", gin.H{"materia_id": 3})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, r, http.MethodPost, "/maestros/5/materias", gin.H{"materia_id": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrTeacherAlreadyAssigned, decodeBody(t, w, nil).Code)

	w = call(t, r, http.MethodPost, "/alumnos/1/materias", gin.H{"materia_id": 3, "maestro_id": 5, "calificacion": 9})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var e model.Enrollment
	decodeBody(t, w, &e)
	assert.Equal(t, 9.0, *e.Grade)

	w = call(t, r, http.MethodPost, "/alumnos/1/materias", gin.H{"materia_id": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	w = call(t, r, http.MethodPut, "/alumnos/1/materias/3", gin.H{"calificacion": 7})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrAmbiguousEnrollment, decodeBody(t, w, nil).Code)

	w = call(t, r, http.MethodPut, "/alumnos/1/materias/3?maestro_id=none", gin.H{"calificacion": 7})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &e)
	assert.Nil(t, e.TeacherID)
	assert.Equal(t, 7.0, *e.Grade)

	w = call(t, r, http.MethodPut, "/alumnos/1/materias/3?maestro_id=5", gin.H{"calificacion": 10.5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidGrade, decodeBody(t, w, nil).Code)

	w = call(t, r, http.MethodDelete, "/alumnos/1/materias/3?maestro_id=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidID, decodeBody(t, w, nil).Code)

	w = call(t, r, http.MethodDelete, "/maestros/5/materias/3", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrAssignmentNotFound, decodeBody(t, w, nil).Code)
}

func TestEnrollMissingReferences(t *testing.T) {
	r := relationEngine(&enrollmentTable{assigned: map[[2]int]bool{}})

	w := call(t, r, http.MethodPost, "/alumnos/2/materias", gin.H{"materia_id": 3})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrStudentNotFound, decodeBody(t, w, nil).Code)

	w = call(t, r, http.MethodPost, "/alumnos/1/materias", gin.H{"materia_id": 4})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrSubjectNotFound, decodeBody(t, w, nil).Code)

	w = call(t, r, http.MethodPost, "/alumnos/1/materias", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrValidation, decodeBody(t, w, nil).Code)
}
