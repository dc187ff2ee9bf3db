package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/unach/escuela-backend/internal/model"
)

// RelationStore is the storage surface of the relationship flows. WithinTx
// hands fn a store bound to a single transaction; returning an error from fn
// rolls it back.
type RelationStore interface {
	WithinTx(ctx context.Context, fn func(RelationStore) error) error

	StudentExists(ctx context.Context, id int) (bool, error)
	TeacherExists(ctx context.Context, id int) (bool, error)
	SubjectExists(ctx context.Context, id int) (bool, error)

	AssignmentExists(ctx context.Context, teacherID, subjectID int) (bool, error)
	InsertAssignment(ctx context.Context, teacherID, subjectID int) (*model.TeacherSubject, error)
	DeleteAssignment(ctx context.Context, teacherID, subjectID int) (int64, error)

	EnrollmentExists(ctx context.Context, studentID, subjectID int, teacherID *int) (bool, error)
	InsertEnrollment(ctx context.Context, e *model.Enrollment) error
	FindEnrollments(ctx context.Context, studentID, subjectID int, sel model.TeacherSelector) ([]model.Enrollment, error)
	UpdateEnrollmentGrade(ctx context.Context, enrollmentID int, grade *float64) (*model.Enrollment, error)
	DeleteEnrollment(ctx context.Context, enrollmentID int) error
}

// RelationRepository implements RelationStore on top of pgx.
type RelationRepository struct {
	db   DBTX
	pool TxBeginner
}

// NewRelationRepository creates a RelationRepository that opens its own
// transactions from pool.
func NewRelationRepository(pool Pool) *RelationRepository {
	return &RelationRepository{db: pool, pool: pool}
}

// WithinTx runs fn inside a transaction. A repository already bound to a
// transaction runs fn directly.
func (r *RelationRepository) WithinTx(ctx context.Context, fn func(RelationStore) error) error {
	if r.pool == nil {
		return fn(r)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&RelationRepository{db: tx})
	})
}

func (r *RelationRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *RelationRepository) StudentExists(ctx context.Context, id int) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM alumnos WHERE id = $1)`, id)
}

func (r *RelationRepository) TeacherExists(ctx context.Context, id int) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM maestros WHERE id = $1)`, id)
}

func (r *RelationRepository) SubjectExists(ctx context.Context, id int) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM materias WHERE id = $1)`, id)
}

func (r *RelationRepository) AssignmentExists(ctx context.Context, teacherID, subjectID int) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS(SELECT 1 FROM maestro_materia WHERE maestro_id = $1 AND materia_id = $2)`,
		teacherID, subjectID)
}

// InsertAssignment creates a maestro_materia row.
func (r *RelationRepository) InsertAssignment(ctx context.Context, teacherID, subjectID int) (*model.TeacherSubject, error) {
	ts := &model.TeacherSubject{TeacherID: teacherID, SubjectID: subjectID}
	err := r.db.QueryRow(ctx,
		`INSERT INTO maestro_materia (maestro_id, materia_id) VALUES ($1, $2) RETURNING id, created_at`,
		teacherID, subjectID,
	).Scan(&ts.ID, &ts.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return ts, nil
}

// DeleteAssignment removes a maestro_materia row and reports how many rows went.
func (r *RelationRepository) DeleteAssignment(ctx context.Context, teacherID, subjectID int) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM maestro_materia WHERE maestro_id = $1 AND materia_id = $2`,
		teacherID, subjectID)
	if err != nil {
		return 0, fmt.Errorf("delete assignment: %w", err)
	}
	return tag.RowsAffected(), nil
}

// EnrollmentExists compares the teacher NULL-aware, so a nil teacherID
// matches the teacher-less enrollment.
func (r *RelationRepository) EnrollmentExists(ctx context.Context, studentID, subjectID int, teacherID *int) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM alumno_materia
			WHERE alumno_id = $1 AND materia_id = $2 AND maestro_id IS NOT DISTINCT FROM $3
		)`,
		studentID, subjectID, teacherID)
}

func (r *RelationRepository) InsertEnrollment(ctx context.Context, e *model.Enrollment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO alumno_materia (alumno_id, materia_id, maestro_id, calificacion)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		e.StudentID, e.SubjectID, e.TeacherID, e.Grade,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return translate(err)
}

const enrollmentColumns = `id, alumno_id, materia_id, maestro_id, calificacion::float8, created_at, updated_at`

func scanEnrollment(row pgx.Row, e *model.Enrollment) error {
	return row.Scan(&e.ID, &e.StudentID, &e.SubjectID, &e.TeacherID, &e.Grade, &e.CreatedAt, &e.UpdatedAt)
}

// FindEnrollments lists the teacher variants of a (student, subject) pair,
// narrowed to one teacher when sel is specified. Rows are locked for update.
func (r *RelationRepository) FindEnrollments(ctx context.Context, studentID, subjectID int, sel model.TeacherSelector) ([]model.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM alumno_materia WHERE alumno_id = $1 AND materia_id = $2`
	args := []any{studentID, subjectID}
	if sel.Specified {
		query += ` AND maestro_id IS NOT DISTINCT FROM $3`
		args = append(args, sel.TeacherID)
	}
	query += ` ORDER BY maestro_id NULLS LAST FOR UPDATE`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find enrollments: %w", err)
	}
	defer rows.Close()

	var out []model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := scanEnrollment(rows, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *RelationRepository) UpdateEnrollmentGrade(ctx context.Context, enrollmentID int, grade *float64) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	err := scanEnrollment(r.db.QueryRow(ctx,
		`UPDATE alumno_materia SET calificacion = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+enrollmentColumns,
		grade, enrollmentID,
	), e)
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

func (r *RelationRepository) DeleteEnrollment(ctx context.Context, enrollmentID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM alumno_materia WHERE id = $1`, enrollmentID)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
