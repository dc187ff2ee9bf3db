package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/unach/escuela-backend/internal/model"
	"github.com/unach/escuela-backend/internal/repository"
)

// memKV is an in-memory KeyValueStore. Values go through JSON like they do
// in Redis.
type memKV struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	sets   int
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memKV) Get(_ context.Context, key string, dest any) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.ttls[key] = ttl
	m.sets++
	return nil
}

func (m *memKV) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// incr mirrors Redis INCR, which stores the counter as a bare integer.
func (m *memKV) incr(key string) {
	var n int64
	if raw, ok := m.data[key]; ok {
		_ = json.Unmarshal(raw, &n)
	}
	m.data[key], _ = json.Marshal(n + 1)
}

func (m *memKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

type notification struct {
	topic  model.ChangeTopic
	action model.ChangeAction
	id     int
}

// recorder implements ChangeNotifier and PhotoDiscarder.
type recorder struct {
	events    []notification
	discarded []string
}

func (r *recorder) Notify(_ context.Context, topic model.ChangeTopic, action model.ChangeAction, id int) {
	r.events = append(r.events, notification{topic, action, id})
}

func (r *recorder) DiscardPhoto(_ context.Context, url string) {
	r.discarded = append(r.discarded, url)
}

func (r *recorder) topics() []model.ChangeTopic {
	out := make([]model.ChangeTopic, len(r.events))
	for i, e := range r.events {
		out[i] = e.topic
	}
	return out
}

// memRelations is an in-memory RelationStore.
type memRelations struct {
	students    map[int]bool
	teachers    map[int]bool
	subjects    map[int]bool
	assignments map[[2]int]bool
	enrollments []model.Enrollment
	nextID      int

	insertErr error
	txCount   int
}

func newMemRelations() *memRelations {
	return &memRelations{
		students:    map[int]bool{1: true, 2: true},
		teachers:    map[int]bool{10: true, 11: true},
		subjects:    map[int]bool{100: true, 101: true},
		assignments: map[[2]int]bool{},
		nextID:      1,
	}
}

func (m *memRelations) WithinTx(_ context.Context, fn func(repository.RelationStore) error) error {
	m.txCount++
	return fn(m)
}

func (m *memRelations) StudentExists(_ context.Context, id int) (bool, error) {
	return m.students[id], nil
}

func (m *memRelations) TeacherExists(_ context.Context, id int) (bool, error) {
	return m.teachers[id], nil
}

func (m *memRelations) SubjectExists(_ context.Context, id int) (bool, error) {
	return m.subjects[id], nil
}

func (m *memRelations) AssignmentExists(_ context.Context, teacherID, subjectID int) (bool, error) {
	return m.assignments[[2]int{teacherID, subjectID}], nil
}

func (m *memRelations) InsertAssignment(_ context.Context, teacherID, subjectID int) (*model.TeacherSubject, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	m.assignments[[2]int{teacherID, subjectID}] = true
	m.nextID++
	return &model.TeacherSubject{ID: m.nextID, TeacherID: teacherID, SubjectID: subjectID}, nil
}

func (m *memRelations) DeleteAssignment(_ context.Context, teacherID, subjectID int) (int64, error) {
	key := [2]int{teacherID, subjectID}
	if !m.assignments[key] {
		return 0, nil
	}
	delete(m.assignments, key)
	return 1, nil
}

func sameTeacher(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *memRelations) EnrollmentExists(_ context.Context, studentID, subjectID int, teacherID *int) (bool, error) {
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.SubjectID == subjectID && sameTeacher(e.TeacherID, teacherID) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRelations) InsertEnrollment(_ context.Context, e *model.Enrollment) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.nextID++
	e.ID = m.nextID
	m.enrollments = append(m.enrollments, *e)
	return nil
}

func (m *memRelations) FindEnrollments(_ context.Context, studentID, subjectID int, sel model.TeacherSelector) ([]model.Enrollment, error) {
	var out []model.Enrollment
	for _, e := range m.enrollments {
		if e.StudentID != studentID || e.SubjectID != subjectID {
			continue
		}
		if sel.Specified && !sameTeacher(e.TeacherID, sel.TeacherID) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memRelations) UpdateEnrollmentGrade(_ context.Context, enrollmentID int, grade *float64) (*model.Enrollment, error) {
	for i := range m.enrollments {
		if m.enrollments[i].ID == enrollmentID {
			m.enrollments[i].Grade = grade
			e := m.enrollments[i]
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRelations) DeleteEnrollment(_ context.Context, enrollmentID int) error {
	for i := range m.enrollments {
		if m.enrollments[i].ID == enrollmentID {
			m.enrollments = append(m.enrollments[:i], m.enrollments[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func ptr[T any](v T) *T { return &v }
