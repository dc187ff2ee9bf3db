package model

// UnassignedTeacher is the display name used when no teacher is linked.
const UnassignedTeacher = "Sin asignar"

// EnrollmentDetail is one row of GET /alumnos/materias.
type EnrollmentDetail struct {
	StudentID      int      `json:"alumno_id"`
	StudentName    string   `json:"alumno_nombre"`
	StudentGrade   int      `json:"grado"`
	StudentEmail   string   `json:"alumno_email"`
	StudentPhoto   *string  `json:"alumno_foto_url"`
	SubjectID      int      `json:"materia_id"`
	SubjectName    string   `json:"materia_nombre"`
	SubjectCode    string   `json:"materia_codigo"`
	SubjectCredits int      `json:"creditos"`
	Grade          *float64 `json:"calificacion"`
	TeacherID      *int     `json:"maestro_id"`
	TeacherName    string   `json:"maestro_nombre"`
	TeacherPhoto   *string  `json:"maestro_foto_url"`
}

// TeacherSubjectDetail is one row of GET /maestros/materias.
type TeacherSubjectDetail struct {
	TeacherID      int     `json:"maestro_id"`
	TeacherName    string  `json:"maestro_nombre"`
	TeacherEmail   string  `json:"maestro_email"`
	TeacherPhoto   *string `json:"maestro_foto_url"`
	SubjectID      int     `json:"materia_id"`
	SubjectName    string  `json:"materia_nombre"`
	SubjectCode    string  `json:"materia_codigo"`
	SubjectCredits int     `json:"creditos"`
}

// SubjectSummary is one row of GET /materias/detalles.
type SubjectSummary struct {
	SubjectID      int     `json:"materia_id"`
	SubjectName    string  `json:"materia_nombre"`
	SubjectCode    string  `json:"materia_codigo"`
	SubjectCredits int     `json:"creditos"`
	TeacherName    string  `json:"maestro_nombre"`
	TeacherPhoto   *string `json:"maestro_foto_url"`
	TotalStudents  int     `json:"total_alumnos"`
	AverageGrade   float64 `json:"promedio_calificaciones"`
}

// TranscriptEntry is one row of GET /alumnos/:id/calificaciones.
type TranscriptEntry struct {
	StudentName  string   `json:"alumno_nombre"`
	StudentGrade int      `json:"grado"`
	SubjectID    int      `json:"materia_id"`
	SubjectName  string   `json:"materia_nombre"`
	SubjectCode  string   `json:"materia_codigo"`
	Grade        *float64 `json:"calificacion"`
	TeacherID    *int     `json:"maestro_id"`
	TeacherName  string   `json:"maestro_nombre"`
	TeacherPhoto *string  `json:"maestro_foto_url"`
}

// RosterEntry is one row of GET /materias/:id/alumnos.
type RosterEntry struct {
	SubjectName  string   `json:"materia_nombre"`
	StudentID    int      `json:"alumno_id"`
	StudentName  string   `json:"alumno_nombre"`
	StudentGrade int      `json:"grado"`
	StudentEmail string   `json:"alumno_email"`
	StudentPhoto *string  `json:"alumno_foto_url"`
	Grade        *float64 `json:"calificacion"`
	TeacherID    *int     `json:"maestro_id"`
	TeacherName  string   `json:"maestro_nombre"`
	TeacherPhoto *string  `json:"maestro_foto_url"`
}

// SubjectTeacher is one row of GET /materias/:id/maestros.
type SubjectTeacher struct {
	TeacherID    int     `json:"maestro_id"`
	TeacherName  string  `json:"maestro_nombre"`
	TeacherEmail string  `json:"maestro_email"`
	TeacherPhoto *string `json:"maestro_foto_url"`
}

// Statistics is the body of GET /estadisticas.
type Statistics struct {
	TotalStudents int     `json:"totalAlumnos"`
	TotalTeachers int     `json:"totalMaestros"`
	TotalSubjects int     `json:"totalMaterias"`
	AverageGrade  float64 `json:"promedioCalificaciones"`
}
