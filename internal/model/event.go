package model

import "time"

// ChangeTopic names the SPA refresh event a mutation triggers.
type ChangeTopic string

const (
	TopicStudents  ChangeTopic = "alumnos-updated"
	TopicTeachers  ChangeTopic = "maestros-updated"
	TopicSubjects  ChangeTopic = "materias-updated"
	TopicRelations ChangeTopic = "relaciones-updated"
)

// ChangeAction describes what happened to the entity.
type ChangeAction string

const (
	ActionCreated ChangeAction = "created"
	ActionUpdated ChangeAction = "updated"
	ActionDeleted ChangeAction = "deleted"
)

// ChangeEvent is published after every successful mutation.
type ChangeEvent struct {
	Topic  ChangeTopic  `json:"evento"`
	Action ChangeAction `json:"accion"`
	ID     int          `json:"id,omitempty"`
	At     time.Time    `json:"fecha"`
}
