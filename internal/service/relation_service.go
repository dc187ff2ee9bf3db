package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/model"
	"github.com/unach/escuela-backend/internal/repository"
)

// RelationService manages teacher assignments and student enrollments.
// Each flow runs in one transaction: the existence checks give the caller a
// precise error, the table constraints still decide concurrent races.
type RelationService struct {
	store  repository.RelationStore
	events ChangeNotifier
	log    zerolog.Logger
}

// NewRelationService creates a new RelationService.
func NewRelationService(store repository.RelationStore, events ChangeNotifier, log zerolog.Logger) *RelationService {
	return &RelationService{
		store:  store,
		events: events,
		log:    log.With().Str("component", "relation_service").Logger(),
	}
}

// AssignSubject records that a teacher teaches a subject.
func (s *RelationService) AssignSubject(ctx context.Context, teacherID, subjectID int) (*model.TeacherSubject, error) {
	var assignment *model.TeacherSubject
	err := s.store.WithinTx(ctx, func(tx repository.RelationStore) error {
		if err := requireRow(tx.TeacherExists(ctx, teacherID)); err != nil {
			return orNotFound(err, ErrTeacherNotFound)
		}
		if err := requireRow(tx.SubjectExists(ctx, subjectID)); err != nil {
			return orNotFound(err, ErrSubjectNotFound)
		}

		exists, err := tx.AssignmentExists(ctx, teacherID, subjectID)
		if err != nil {
			return err
		}
		if exists {
			return ErrTeacherAlreadyAssigned
		}

		assignment, err = tx.InsertAssignment(ctx, teacherID, subjectID)
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return ErrTeacherAlreadyAssigned
		case errors.Is(err, repository.ErrReferenceMissing):
			return ErrAssignmentReferenceMissing
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.Notify(ctx, model.TopicRelations, model.ActionCreated, assignment.ID)
	return assignment, nil
}

// UnassignSubject removes a teacher assignment.
func (s *RelationService) UnassignSubject(ctx context.Context, teacherID, subjectID int) error {
	n, err := s.store.DeleteAssignment(ctx, teacherID, subjectID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAssignmentNotFound
	}
	s.events.Notify(ctx, model.TopicRelations, model.ActionDeleted, 0)
	return nil
}

// Enroll registers a student in a subject, optionally under a teacher who
// must already be assigned to that subject.
func (s *RelationService) Enroll(ctx context.Context, studentID int, req model.EnrollRequest) (*model.Enrollment, error) {
	if !model.ValidGrade(req.Grade) {
		return nil, ErrInvalidGrade
	}

	enrollment := &model.Enrollment{
		StudentID: studentID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		Grade:     req.Grade,
	}

	err := s.store.WithinTx(ctx, func(tx repository.RelationStore) error {
		if err := requireRow(tx.StudentExists(ctx, studentID)); err != nil {
			return orNotFound(err, ErrStudentNotFound)
		}
		if err := requireRow(tx.SubjectExists(ctx, req.SubjectID)); err != nil {
			return orNotFound(err, ErrSubjectNotFound)
		}

		if req.TeacherID != nil {
			if err := requireRow(tx.TeacherExists(ctx, *req.TeacherID)); err != nil {
				return orNotFound(err, ErrTeacherNotFound)
			}
			if err := requireRow(tx.AssignmentExists(ctx, *req.TeacherID, req.SubjectID)); err != nil {
				return orNotFound(err, ErrTeacherNotTeachingSubject)
			}
		}

		exists, err := tx.EnrollmentExists(ctx, studentID, req.SubjectID, req.TeacherID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyEnrolled
		}

		err = tx.InsertEnrollment(ctx, enrollment)
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return ErrAlreadyEnrolled
		case errors.Is(err, repository.ErrReferenceMissing):
			return ErrEnrollmentReferenceMissing
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.Notify(ctx, model.TopicRelations, model.ActionCreated, enrollment.ID)
	return enrollment, nil
}

// UpdateGrade sets or clears the grade of one enrollment.
func (s *RelationService) UpdateGrade(ctx context.Context, studentID, subjectID int, sel model.TeacherSelector, grade *float64) (*model.Enrollment, error) {
	if !model.ValidGrade(grade) {
		return nil, ErrInvalidGrade
	}

	var updated *model.Enrollment
	err := s.store.WithinTx(ctx, func(tx repository.RelationStore) error {
		target, err := resolveEnrollment(ctx, tx, studentID, subjectID, sel)
		if err != nil {
			return err
		}
		updated, err = tx.UpdateEnrollmentGrade(ctx, target.ID, grade)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.Notify(ctx, model.TopicRelations, model.ActionUpdated, updated.ID)
	return updated, nil
}

// Unenroll removes one enrollment of a student in a subject.
func (s *RelationService) Unenroll(ctx context.Context, studentID, subjectID int, sel model.TeacherSelector) error {
	var removedID int
	err := s.store.WithinTx(ctx, func(tx repository.RelationStore) error {
		target, err := resolveEnrollment(ctx, tx, studentID, subjectID, sel)
		if err != nil {
			return err
		}
		removedID = target.ID
		if err := tx.DeleteEnrollment(ctx, target.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.Notify(ctx, model.TopicRelations, model.ActionDeleted, removedID)
	return nil
}

// resolveEnrollment picks the single enrollment sel refers to. Without a
// teacher selector the pair must have exactly one teacher variant.
func resolveEnrollment(ctx context.Context, tx repository.RelationStore, studentID, subjectID int, sel model.TeacherSelector) (*model.Enrollment, error) {
	rows, err := tx.FindEnrollments(ctx, studentID, subjectID, sel)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, ErrEnrollmentNotFound
	case 1:
		return &rows[0], nil
	default:
		return nil, ErrAmbiguousEnrollment
	}
}

var errRowMissing = errors.New("row missing")

// requireRow turns an existence check into an error.
func requireRow(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return errRowMissing
	}
	return nil
}

func orNotFound(err, notFound error) error {
	if errors.Is(err, errRowMissing) {
		return notFound
	}
	return err
}
