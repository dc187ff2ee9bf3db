package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/config"
	"github.com/unach/escuela-backend/internal/model"
)

// KeyValueStore is a JSON key/value store with expiry, backed by Redis in
// production.
type KeyValueStore interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ReportStore is the read-only query surface behind the reports.
type ReportStore interface {
	GetStatistics(ctx context.Context) (*model.Statistics, error)
	ListEnrollmentDetails(ctx context.Context) ([]model.EnrollmentDetail, error)
	ListTeacherSubjects(ctx context.Context) ([]model.TeacherSubjectDetail, error)
	ListSubjectSummaries(ctx context.Context) ([]model.SubjectSummary, error)
	ListTranscript(ctx context.Context, studentID int) ([]model.TranscriptEntry, error)
	ListRoster(ctx context.Context, subjectID int) ([]model.RosterEntry, error)
	ListSubjectTeachers(ctx context.Context, subjectID int) ([]model.SubjectTeacher, error)
	StudentExists(ctx context.Context, id int) (bool, error)
	SubjectExists(ctx context.Context, id int) (bool, error)
}

// ReportService serves the joined and aggregated views. Statistics and the
// subject summary are cached per report generation; a change event starts a
// new generation and old entries age out with ttl.
type ReportService struct {
	repo  ReportStore
	cache KeyValueStore
	ttl   time.Duration
	log   zerolog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(repo ReportStore, cache KeyValueStore, ttl time.Duration, log zerolog.Logger) *ReportService {
	return &ReportService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log.With().Str("component", "report_service").Logger(),
	}
}

// Statistics returns the system totals.
func (s *ReportService) Statistics(ctx context.Context) (*model.Statistics, error) {
	gen, cacheable := s.generation(ctx)
	key := config.CacheKey.StatisticsKey(gen)

	var cached model.Statistics
	if cacheable && s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	stats, err := s.repo.GetStatistics(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.toCache(ctx, key, stats)
	}
	return stats, nil
}

// SubjectSummaries returns one summary row per subject.
func (s *ReportService) SubjectSummaries(ctx context.Context) ([]model.SubjectSummary, error) {
	gen, cacheable := s.generation(ctx)
	key := config.CacheKey.SubjectDetailsKey(gen)

	var cached []model.SubjectSummary
	if cacheable && s.fromCache(ctx, key, &cached) {
		return nonNil(cached), nil
	}

	rows, err := s.repo.ListSubjectSummaries(ctx)
	if err != nil {
		return nil, err
	}
	rows = nonNil(rows)
	if cacheable {
		s.toCache(ctx, key, rows)
	}
	return rows, nil
}

func (s *ReportService) EnrollmentDetails(ctx context.Context) ([]model.EnrollmentDetail, error) {
	rows, err := s.repo.ListEnrollmentDetails(ctx)
	return nonNil(rows), err
}

func (s *ReportService) TeacherSubjects(ctx context.Context) ([]model.TeacherSubjectDetail, error) {
	rows, err := s.repo.ListTeacherSubjects(ctx)
	return nonNil(rows), err
}

// Transcript lists a student's enrollments. A missing student is an error,
// a student without enrollments is an empty list.
func (s *ReportService) Transcript(ctx context.Context, studentID int) ([]model.TranscriptEntry, error) {
	if err := requireRow(s.repo.StudentExists(ctx, studentID)); err != nil {
		return nil, orNotFound(err, ErrStudentNotFound)
	}
	rows, err := s.repo.ListTranscript(ctx, studentID)
	return nonNil(rows), err
}

// Roster lists the students enrolled in a subject.
func (s *ReportService) Roster(ctx context.Context, subjectID int) ([]model.RosterEntry, error) {
	if err := requireRow(s.repo.SubjectExists(ctx, subjectID)); err != nil {
		return nil, orNotFound(err, ErrSubjectNotFound)
	}
	rows, err := s.repo.ListRoster(ctx, subjectID)
	return nonNil(rows), err
}

// SubjectTeachers lists the teachers assigned to a subject.
func (s *ReportService) SubjectTeachers(ctx context.Context, subjectID int) ([]model.SubjectTeacher, error) {
	if err := requireRow(s.repo.SubjectExists(ctx, subjectID)); err != nil {
		return nil, orNotFound(err, ErrSubjectNotFound)
	}
	rows, err := s.repo.ListSubjectTeachers(ctx, subjectID)
	return nonNil(rows), err
}

// generation reads the current report generation. It must be read before
// the query runs. An unreadable counter disables caching for the call.
func (s *ReportService) generation(ctx context.Context) (int64, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return 0, false
	}
	var gen int64
	if _, err := s.cache.Get(ctx, config.CacheKey.ReportGenerationKey(), &gen); err != nil {
		s.log.Warn().Err(err).Msg("Report generation unavailable")
		return 0, false
	}
	return gen, true
}

// fromCache reads key into dest. Cache failures degrade to a database read.
func (s *ReportService) fromCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Report cache read failed")
		return false
	}
	return found
}

func (s *ReportService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Report cache write failed")
	}
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
