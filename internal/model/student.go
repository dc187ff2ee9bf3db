package model

import "time"

// Student is a row of the alumnos table.
type Student struct {
	ID        int       `json:"id"`
	Name      string    `json:"nombre"`
	Grade     int       `json:"grado"`
	Email     string    `json:"email"`
	PhotoURL  *string   `json:"foto_url"`
	TeacherID *int      `json:"maestro_id"` // Homeroom teacher, optional.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudentRequest is the payload for creating or fully replacing a student.
type StudentRequest struct {
	Name      string  `json:"nombre" binding:"required,notblank,min=2,max=120"`
	Grade     int     `json:"grado" binding:"required,min=1"`
	Email     string  `json:"email" binding:"required,email,max=160"`
	PhotoURL  *string `json:"foto_url" binding:"omitempty,max=500"`
	TeacherID *int    `json:"maestro_id" binding:"omitempty,min=1"`
}

// ToStudent copies the editable fields into a Student with the given id.
func (r StudentRequest) ToStudent(id int) *Student {
	return &Student{
		ID:        id,
		Name:      r.Name,
		Grade:     r.Grade,
		Email:     r.Email,
		PhotoURL:  blankToNil(r.PhotoURL),
		TeacherID: r.TeacherID,
	}
}

func blankToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
