package model

import (
	"math"
	"time"
)

// Grade bounds for alumno_materia.calificacion.
const (
	MinGrade = 0.0
	MaxGrade = 10.0
)

// TeacherSubject is a maestro_materia row: the teacher may teach the subject.
type TeacherSubject struct {
	ID        int       `json:"id"`
	TeacherID int       `json:"maestro_id"`
	SubjectID int       `json:"materia_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Enrollment is an alumno_materia row.
type Enrollment struct {
	ID        int       `json:"id"`
	StudentID int       `json:"alumno_id"`
	SubjectID int       `json:"materia_id"`
	TeacherID *int      `json:"maestro_id"`
	Grade     *float64  `json:"calificacion"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssignSubjectRequest is the payload of POST /maestros/:id/materias.
type AssignSubjectRequest struct {
	SubjectID int `json:"materia_id" binding:"required,min=1"`
}

// EnrollRequest is the payload of POST /alumnos/:id/materias.
// Grade bounds are checked by the service so the error carries its own code.
type EnrollRequest struct {
	SubjectID int      `json:"materia_id" binding:"required,min=1"`
	TeacherID *int     `json:"maestro_id" binding:"omitempty,min=1"`
	Grade     *float64 `json:"calificacion"`
}

// UpdateGradeRequest is the payload of PUT /alumnos/:id/materias/:materiaId.
// A null calificacion clears the grade.
type UpdateGradeRequest struct {
	Grade *float64 `json:"calificacion"`
}

// TeacherSelector picks one teacher variant of a (student, subject) pair.
// When Specified is false the caller did not name a teacher; a nil TeacherID
// with Specified set selects the enrollment without teacher.
type TeacherSelector struct {
	Specified bool
	TeacherID *int
}

// AnyTeacher is the selector used when the request does not name a teacher.
var AnyTeacher = TeacherSelector{}

// gradeScale is the number of decimal places calificacion keeps.
const gradeScale = 10

// ValidGrade reports whether g is absent, or within [MinGrade, MaxGrade]
// with at most one decimal place. Finer grades would be rounded silently by
// the NUMERIC(3,1) column.
func ValidGrade(g *float64) bool {
	if g == nil {
		return true
	}
	if *g < MinGrade || *g > MaxGrade {
		return false
	}
	scaled := *g * gradeScale
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}
