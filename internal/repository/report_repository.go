package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/unach/escuela-backend/internal/model"
)

// ReportRepository handles the read-only joins and aggregates.
type ReportRepository struct {
	db DBTX
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db DBTX) *ReportRepository {
	return &ReportRepository{db: db}
}

// collect scans every row with scan and closes rows.
func collect[T any](rows pgx.Rows, scan func(pgx.Rows, *T) error) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		var item T
		if err := scan(rows, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// GetStatistics retrieves the system totals. The mean only counts positive
// grades.
func (r *ReportRepository) GetStatistics(ctx context.Context) (*model.Statistics, error) {
	s := &model.Statistics{}
	err := r.db.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM alumnos),
			(SELECT COUNT(*) FROM maestros),
			(SELECT COUNT(*) FROM materias),
			(SELECT COALESCE(ROUND(AVG(calificacion)::numeric, 2), 0)::float8
			   FROM alumno_materia WHERE calificacion IS NOT NULL AND calificacion > 0)`,
	).Scan(&s.TotalStudents, &s.TotalTeachers, &s.TotalSubjects, &s.AverageGrade)
	if err != nil {
		return nil, fmt.Errorf("get statistics: %w", err)
	}
	return s, nil
}

// ListEnrollmentDetails returns every enrollment with student, subject and
// teacher columns.
func (r *ReportRepository) ListEnrollmentDetails(ctx context.Context) ([]model.EnrollmentDetail, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.nombre, a.grado, a.email, a.foto_url,
		        m.id, m.nombre, m.codigo, m.creditos,
		        am.calificacion::float8, am.maestro_id,
		        COALESCE(ma.nombre, $1), ma.foto_url
		 FROM alumnos a
		 INNER JOIN alumno_materia am ON a.id = am.alumno_id
		 INNER JOIN materias m ON am.materia_id = m.id
		 LEFT JOIN maestros ma ON am.maestro_id = ma.id
		 ORDER BY a.id, m.id, am.maestro_id NULLS LAST`,
		model.UnassignedTeacher)
	if err != nil {
		return nil, fmt.Errorf("list enrollment details: %w", err)
	}
	return collect(rows, func(row pgx.Rows, d *model.EnrollmentDetail) error {
		return row.Scan(&d.StudentID, &d.StudentName, &d.StudentGrade, &d.StudentEmail, &d.StudentPhoto,
			&d.SubjectID, &d.SubjectName, &d.SubjectCode, &d.SubjectCredits,
			&d.Grade, &d.TeacherID, &d.TeacherName, &d.TeacherPhoto)
	})
}

// ListTeacherSubjects returns every assignment ordered by teacher then subject name.
func (r *ReportRepository) ListTeacherSubjects(ctx context.Context) ([]model.TeacherSubjectDetail, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ma.id, ma.nombre, ma.email, ma.foto_url,
		        m.id, m.nombre, m.codigo, m.creditos
		 FROM maestros ma
		 INNER JOIN maestro_materia mm ON ma.id = mm.maestro_id
		 INNER JOIN materias m ON mm.materia_id = m.id
		 ORDER BY ma.nombre, m.nombre`)
	if err != nil {
		return nil, fmt.Errorf("list teacher subjects: %w", err)
	}
	return collect(rows, func(row pgx.Rows, d *model.TeacherSubjectDetail) error {
		return row.Scan(&d.TeacherID, &d.TeacherName, &d.TeacherEmail, &d.TeacherPhoto,
			&d.SubjectID, &d.SubjectName, &d.SubjectCode, &d.SubjectCredits)
	})
}

// ListSubjectSummaries returns one row per subject. The teacher shown is the
// MAX over the assigned teachers; the average ignores zero grades.
func (r *ReportRepository) ListSubjectSummaries(ctx context.Context) ([]model.SubjectSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.id, m.nombre, m.codigo, m.creditos,
		        COALESCE(MAX(ma.nombre), $1),
		        MAX(ma.foto_url),
		        COUNT(DISTINCT am.alumno_id),
		        COALESCE(ROUND(AVG(NULLIF(am.calificacion, 0))::numeric, 2), 0)::float8
		 FROM materias m
		 LEFT JOIN maestro_materia mm ON mm.materia_id = m.id
		 LEFT JOIN maestros ma ON ma.id = mm.maestro_id
		 LEFT JOIN alumno_materia am ON am.materia_id = m.id
		 GROUP BY m.id, m.nombre, m.codigo, m.creditos
		 ORDER BY m.nombre`,
		model.UnassignedTeacher)
	if err != nil {
		return nil, fmt.Errorf("list subject summaries: %w", err)
	}
	return collect(rows, func(row pgx.Rows, s *model.SubjectSummary) error {
		return row.Scan(&s.SubjectID, &s.SubjectName, &s.SubjectCode, &s.SubjectCredits,
			&s.TeacherName, &s.TeacherPhoto, &s.TotalStudents, &s.AverageGrade)
	})
}

// ListTranscript returns one row per (subject, teacher) enrollment of a student.
func (r *ReportRepository) ListTranscript(ctx context.Context, studentID int) ([]model.TranscriptEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.nombre, a.grado, m.id, m.nombre, m.codigo,
		        am.calificacion::float8, am.maestro_id,
		        COALESCE(ma.nombre, $2), ma.foto_url
		 FROM alumnos a
		 JOIN alumno_materia am ON a.id = am.alumno_id
		 JOIN materias m ON am.materia_id = m.id
		 LEFT JOIN maestros ma ON am.maestro_id = ma.id
		 WHERE a.id = $1
		 ORDER BY m.nombre, am.maestro_id NULLS LAST`,
		studentID, model.UnassignedTeacher)
	if err != nil {
		return nil, fmt.Errorf("list transcript: %w", err)
	}
	return collect(rows, func(row pgx.Rows, t *model.TranscriptEntry) error {
		return row.Scan(&t.StudentName, &t.StudentGrade, &t.SubjectID, &t.SubjectName, &t.SubjectCode,
			&t.Grade, &t.TeacherID, &t.TeacherName, &t.TeacherPhoto)
	})
}

// ListRoster returns the students enrolled in a subject ordered by name.
func (r *ReportRepository) ListRoster(ctx context.Context, subjectID int) ([]model.RosterEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.nombre, a.id, a.nombre, a.grado, a.email, a.foto_url,
		        am.calificacion::float8, am.maestro_id,
		        COALESCE(ma.nombre, $2), ma.foto_url
		 FROM materias m
		 JOIN alumno_materia am ON m.id = am.materia_id
		 JOIN alumnos a ON am.alumno_id = a.id
		 LEFT JOIN maestros ma ON am.maestro_id = ma.id
		 WHERE m.id = $1
		 ORDER BY a.nombre, am.maestro_id NULLS LAST`,
		subjectID, model.UnassignedTeacher)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return collect(rows, func(row pgx.Rows, e *model.RosterEntry) error {
		return row.Scan(&e.SubjectName, &e.StudentID, &e.StudentName, &e.StudentGrade, &e.StudentEmail, &e.StudentPhoto,
			&e.Grade, &e.TeacherID, &e.TeacherName, &e.TeacherPhoto)
	})
}

// ListSubjectTeachers returns the teachers assigned to a subject.
func (r *ReportRepository) ListSubjectTeachers(ctx context.Context, subjectID int) ([]model.SubjectTeacher, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ma.id, ma.nombre, ma.email, ma.foto_url
		 FROM maestros ma
		 INNER JOIN maestro_materia mm ON ma.id = mm.maestro_id
		 WHERE mm.materia_id = $1
		 ORDER BY ma.nombre`,
		subjectID)
	if err != nil {
		return nil, fmt.Errorf("list subject teachers: %w", err)
	}
	return collect(rows, func(row pgx.Rows, t *model.SubjectTeacher) error {
		return row.Scan(&t.TeacherID, &t.TeacherName, &t.TeacherEmail, &t.TeacherPhoto)
	})
}

// StudentExists and SubjectExists let the report service tell an empty
// result from a missing entity.
func (r *ReportRepository) StudentExists(ctx context.Context, id int) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM alumnos WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

func (r *ReportRepository) SubjectExists(ctx context.Context, id int) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM materias WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

// PhotoInUse reports whether any student or teacher still references url.
func (r *ReportRepository) PhotoInUse(ctx context.Context, url string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM alumnos WHERE foto_url = $1)
		     OR EXISTS(SELECT 1 FROM maestros WHERE foto_url = $1)`,
		url).Scan(&ok)
	return ok, err
}
