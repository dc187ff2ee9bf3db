package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/model"
	"github.com/unach/escuela-backend/internal/repository"
)

// StudentStore is the alumnos storage used by StudentService.
type StudentStore interface {
	List(ctx context.Context) ([]model.Student, error)
	GetByID(ctx context.Context, id int) (*model.Student, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	Delete(ctx context.Context, id int) (*string, error)
}

// StudentService handles student business logic.
type StudentService struct {
	repo   StudentStore
	events ChangeNotifier
	photos PhotoDiscarder
	log    zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(repo StudentStore, events ChangeNotifier, photos PhotoDiscarder, log zerolog.Logger) *StudentService {
	return &StudentService{
		repo:   repo,
		events: events,
		photos: photos,
		log:    log.With().Str("component", "student_service").Logger(),
	}
}

// List retrieves every student.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}

// Create inserts a student.
func (s *StudentService) Create(ctx context.Context, req model.StudentRequest) (*model.Student, error) {
	student := req.ToStudent(0)
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, studentWriteError(err)
	}
	s.events.Notify(ctx, model.TopicStudents, model.ActionCreated, student.ID)
	return student, nil
}

// Update replaces the editable fields of a student. A replaced photo is
// handed to the photo discarder.
func (s *StudentService) Update(ctx context.Context, id int, req model.StudentRequest) (*model.Student, error) {
	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, studentWriteError(err)
	}

	student := req.ToStudent(id)
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, studentWriteError(err)
	}

	if photoReplaced(old.PhotoURL, student.PhotoURL) {
		s.photos.DiscardPhoto(ctx, *old.PhotoURL)
	}
	s.events.Notify(ctx, model.TopicStudents, model.ActionUpdated, id)
	return student, nil
}

// Delete removes a student together with its enrollments.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	photo, err := s.repo.Delete(ctx, id)
	if err != nil {
		return studentWriteError(err)
	}
	if photo != nil {
		s.photos.DiscardPhoto(ctx, *photo)
	}
	s.events.Notify(ctx, model.TopicStudents, model.ActionDeleted, id)
	s.events.Notify(ctx, model.TopicRelations, model.ActionDeleted, 0)
	return nil
}

func studentWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrStudentNotFound
	case errors.Is(err, repository.ErrReferenceMissing):
		return ErrHomeroomTeacherAbsent
	default:
		return err
	}
}

// photoReplaced reports whether an existing photo URL was changed or cleared.
func photoReplaced(old, updated *string) bool {
	if old == nil || *old == "" {
		return false
	}
	return updated == nil || *updated != *old
}
