package service

import "errors"

// Domain errors returned by the services. Handlers map them to response codes.
var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrTeacherNotFound    = errors.New("teacher not found")
	ErrSubjectNotFound    = errors.New("subject not found")
	ErrAssignmentNotFound = errors.New("teacher subject assignment not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrTeacherAlreadyAssigned     = errors.New("teacher already assigned to subject")
	ErrAlreadyEnrolled            = errors.New("student already enrolled in subject with this teacher")
	ErrTeacherNotTeachingSubject  = errors.New("teacher does not teach this subject")
	ErrAssignmentReferenceMissing = errors.New("teacher or subject does not exist")
	ErrEnrollmentReferenceMissing = errors.New("student, subject or teacher does not exist")
	ErrAmbiguousEnrollment        = errors.New("several teacher variants match this enrollment")
	ErrInvalidGrade               = errors.New("grade must be between 0 and 10")

	ErrDuplicateSubjectCode  = errors.New("subject code already exists")
	ErrHomeroomTeacherAbsent = errors.New("homeroom teacher does not exist")
	ErrTeacherDeleteConflict = errors.New("deleting teacher would duplicate a teacher-less enrollment")
)
