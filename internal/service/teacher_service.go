package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/model"
	"github.com/unach/escuela-backend/internal/repository"
)

// TeacherStore is the maestros storage used by TeacherService.
type TeacherStore interface {
	List(ctx context.Context) ([]model.Teacher, error)
	GetByID(ctx context.Context, id int) (*model.Teacher, error)
	Create(ctx context.Context, t *model.Teacher) error
	Update(ctx context.Context, t *model.Teacher) error
	Delete(ctx context.Context, id int) (*string, error)
}

// TeacherService handles teacher business logic.
type TeacherService struct {
	repo   TeacherStore
	events ChangeNotifier
	photos PhotoDiscarder
	log    zerolog.Logger
}

// NewTeacherService creates a new TeacherService.
func NewTeacherService(repo TeacherStore, events ChangeNotifier, photos PhotoDiscarder, log zerolog.Logger) *TeacherService {
	return &TeacherService{
		repo:   repo,
		events: events,
		photos: photos,
		log:    log.With().Str("component", "teacher_service").Logger(),
	}
}

func (s *TeacherService) List(ctx context.Context) ([]model.Teacher, error) {
	teachers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if teachers == nil {
		teachers = []model.Teacher{}
	}
	return teachers, nil
}

func (s *TeacherService) Create(ctx context.Context, req model.TeacherRequest) (*model.Teacher, error) {
	teacher := req.ToTeacher(0)
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, err
	}
	s.events.Notify(ctx, model.TopicTeachers, model.ActionCreated, teacher.ID)
	return teacher, nil
}

// Update replaces the editable fields of a teacher.
func (s *TeacherService) Update(ctx context.Context, id int, req model.TeacherRequest) (*model.Teacher, error) {
	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, teacherError(err)
	}

	teacher := req.ToTeacher(id)
	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, teacherError(err)
	}

	if photoReplaced(old.PhotoURL, teacher.PhotoURL) {
		s.photos.DiscardPhoto(ctx, *old.PhotoURL)
	}
	s.events.Notify(ctx, model.TopicTeachers, model.ActionUpdated, id)
	return teacher, nil
}

// Delete removes a teacher. Its assignments go with it; enrollments and
// students keep their rows with the teacher reference cleared.
func (s *TeacherService) Delete(ctx context.Context, id int) error {
	photo, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrTeacherDeleteConflict
		}
		return teacherError(err)
	}
	if photo != nil {
		s.photos.DiscardPhoto(ctx, *photo)
	}
	s.events.Notify(ctx, model.TopicTeachers, model.ActionDeleted, id)
	// Enrollment rows changed too.
	s.events.Notify(ctx, model.TopicRelations, model.ActionUpdated, 0)
	return nil
}

func teacherError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTeacherNotFound
	}
	return err
}
