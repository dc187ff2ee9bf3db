package repository

import (
	"context"
	"fmt"

	"github.com/unach/escuela-backend/internal/model"
)

type SubjectRepository struct {
	db DBTX
}

func NewSubjectRepository(db DBTX) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO materias (nombre, codigo, creditos) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`,
		s.Name, s.Code, s.Credits).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

func (r *SubjectRepository) List(ctx context.Context) ([]model.Subject, error) {
	rows, err := r.db.Query(ctx, `SELECT id, nombre, codigo, creditos, created_at, updated_at FROM materias ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.Credits, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	err := r.db.QueryRow(ctx,
		`UPDATE materias SET nombre = $1, codigo = $2, creditos = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING created_at, updated_at`,
		s.Name, s.Code, s.Credits, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
	return translate(err)
}

// Delete removes a subject; assignments and enrollments cascade.
func (r *SubjectRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM materias WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
