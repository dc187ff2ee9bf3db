package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/unach/escuela-backend/internal/model"
)

const teacherColumns = `id, nombre, materia, email, foto_url, created_at, updated_at`

// TeacherRepository handles maestros data access.
type TeacherRepository struct {
	db DBTX
}

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(db DBTX) *TeacherRepository {
	return &TeacherRepository{db: db}
}

func scanTeacher(row pgx.Row, t *model.Teacher) error {
	return row.Scan(&t.ID, &t.Name, &t.LegacySubject, &t.Email, &t.PhotoURL, &t.CreatedAt, &t.UpdatedAt)
}

// List returns every teacher ordered by id.
func (r *TeacherRepository) List(ctx context.Context) ([]model.Teacher, error) {
	rows, err := r.db.Query(ctx, `SELECT `+teacherColumns+` FROM maestros ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()

	var teachers []model.Teacher
	for rows.Next() {
		var t model.Teacher
		if err := scanTeacher(rows, &t); err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

// GetByID retrieves a teacher by ID.
func (r *TeacherRepository) GetByID(ctx context.Context, id int) (*model.Teacher, error) {
	t := &model.Teacher{}
	if err := scanTeacher(r.db.QueryRow(ctx, `SELECT `+teacherColumns+` FROM maestros WHERE id = $1`, id), t); err != nil {
		return nil, translate(err)
	}
	return t, nil
}

// Create inserts a new teacher.
func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO maestros (nombre, materia, email, foto_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		t.Name, t.LegacySubject, t.Email, t.PhotoURL,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

// Update replaces the editable columns of a teacher.
func (r *TeacherRepository) Update(ctx context.Context, t *model.Teacher) error {
	err := scanTeacher(r.db.QueryRow(ctx,
		`UPDATE maestros
		 SET nombre = $1, materia = $2, email = $3, foto_url = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING `+teacherColumns,
		t.Name, t.LegacySubject, t.Email, t.PhotoURL, t.ID,
	), t)
	return translate(err)
}

// Delete removes a teacher and returns its photo URL. Assignments cascade;
// enrollments and homeroom references are set to NULL by the schema. The
// SET NULL can collide with an existing teacher-less enrollment of the same
// student and subject, which surfaces as ErrDuplicate.
func (r *TeacherRepository) Delete(ctx context.Context, id int) (*string, error) {
	var photo *string
	err := r.db.QueryRow(ctx, `DELETE FROM maestros WHERE id = $1 RETURNING foto_url`, id).Scan(&photo)
	if err != nil {
		return nil, translate(err)
	}
	return photo, nil
}
