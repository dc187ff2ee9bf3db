package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/model"
	"github.com/unach/escuela-backend/internal/repository"
)

type SubjectStore interface {
	List(ctx context.Context) ([]model.Subject, error)
	Create(ctx context.Context, s *model.Subject) error
	Update(ctx context.Context, s *model.Subject) error
	Delete(ctx context.Context, id int) error
}

type SubjectService struct {
	subjectRepo SubjectStore
	events      ChangeNotifier
	log         zerolog.Logger
}

func NewSubjectService(subjectRepo SubjectStore, events ChangeNotifier, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		events:      events,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

func (s *SubjectService) GetAll(ctx context.Context) ([]model.Subject, error) {
	subjects, err := s.subjectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if subjects == nil {
		subjects = []model.Subject{}
	}
	return subjects, nil
}

func (s *SubjectService) Create(ctx context.Context, req model.SubjectRequest) (*model.Subject, error) {
	sub := &model.Subject{Name: req.Name, Code: req.Code, Credits: req.Credits}
	if err := s.subjectRepo.Create(ctx, sub); err != nil {
		return nil, subjectError(err)
	}
	s.events.Notify(ctx, model.TopicSubjects, model.ActionCreated, sub.ID)
	return sub, nil
}

func (s *SubjectService) Update(ctx context.Context, id int, req model.SubjectRequest) (*model.Subject, error) {
	sub := &model.Subject{ID: id, Name: req.Name, Code: req.Code, Credits: req.Credits}
	if err := s.subjectRepo.Update(ctx, sub); err != nil {
		return nil, subjectError(err)
	}
	s.events.Notify(ctx, model.TopicSubjects, model.ActionUpdated, id)
	return sub, nil
}

// Delete removes a subject together with its assignments and enrollments.
func (s *SubjectService) Delete(ctx context.Context, id int) error {
	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		return subjectError(err)
	}
	s.events.Notify(ctx, model.TopicSubjects, model.ActionDeleted, id)
	s.events.Notify(ctx, model.TopicRelations, model.ActionDeleted, 0)
	return nil
}

func subjectError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrSubjectNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicateSubjectCode
	default:
		return err
	}
}
