package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/unach/escuela-backend/internal/model"
)

const studentColumns = `id, nombre, grado, email, foto_url, maestro_id, created_at, updated_at`

// StudentRepository handles alumnos data access.
type StudentRepository struct {
	db DBTX
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{db: db}
}

func scanStudent(row pgx.Row, s *model.Student) error {
	return row.Scan(&s.ID, &s.Name, &s.Grade, &s.Email, &s.PhotoURL, &s.TeacherID, &s.CreatedAt, &s.UpdatedAt)
}

// List returns every student ordered by id.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.db.Query(ctx, `SELECT `+studentColumns+` FROM alumnos ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// GetByID retrieves a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM alumnos WHERE id = $1`, id), s)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// Create inserts a new student and fills the generated columns.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO alumnos (nombre, grado, email, foto_url, maestro_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.Grade, s.Email, s.PhotoURL, s.TeacherID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

// Update replaces the editable columns of a student.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	err := scanStudent(r.db.QueryRow(ctx,
		`UPDATE alumnos
		 SET nombre = $1, grado = $2, email = $3, foto_url = $4, maestro_id = $5, updated_at = NOW()
		 WHERE id = $6
		 RETURNING `+studentColumns,
		s.Name, s.Grade, s.Email, s.PhotoURL, s.TeacherID, s.ID,
	), s)
	return translate(err)
}

// Delete removes a student (enrollments cascade) and returns its photo URL.
func (r *StudentRepository) Delete(ctx context.Context, id int) (*string, error) {
	var photo *string
	err := r.db.QueryRow(ctx, `DELETE FROM alumnos WHERE id = $1 RETURNING foto_url`, id).Scan(&photo)
	if err != nil {
		return nil, translate(err)
	}
	return photo, nil
}
