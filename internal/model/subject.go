package model

import "time"

// Subject represents a row of the materias table.
type Subject struct {
	ID        int       `json:"id"`
	Name      string    `json:"nombre"`
	Code      string    `json:"codigo"`
	Credits   int       `json:"creditos"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubjectRequest is the payload for creating or updating a subject.
type SubjectRequest struct {
	Name    string `json:"nombre" binding:"required,notblank,min=2,max=120"`
	Code    string `json:"codigo" binding:"required,notblank,max=30"`
	Credits int    `json:"creditos" binding:"required,min=1"`
}
