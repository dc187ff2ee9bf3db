package model

import "time"

// Teacher is a row of the maestros table. LegacySubject is the free-text
// "materia" column kept for the SPA; assignments live in maestro_materia.
type Teacher struct {
	ID            int       `json:"id"`
	Name          string    `json:"nombre"`
	LegacySubject *string   `json:"materia"`
	Email         string    `json:"email"`
	PhotoURL      *string   `json:"foto_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TeacherRequest is the payload for creating or fully replacing a teacher.
type TeacherRequest struct {
	Name          string  `json:"nombre" binding:"required,notblank,min=2,max=120"`
	LegacySubject *string `json:"materia" binding:"omitempty,max=120"`
	Email         string  `json:"email" binding:"required,email,max=160"`
	PhotoURL      *string `json:"foto_url" binding:"omitempty,max=500"`
}

// ToTeacher copies the editable fields into a Teacher with the given id.
func (r TeacherRequest) ToTeacher(id int) *Teacher {
	return &Teacher{
		ID:            id,
		Name:          r.Name,
		LegacySubject: blankToNil(r.LegacySubject),
		Email:         r.Email,
		PhotoURL:      blankToNil(r.PhotoURL),
	}
}
