package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrTokenRevoked       ErrCode = "TOKEN_REVOKED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidGrade   ErrCode = "INVALID_GRADE"
	ErrInvalidFormat  ErrCode = "INVALID_FORMAT"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrStudentNotFound    ErrCode = "STUDENT_NOT_FOUND"
	ErrTeacherNotFound    ErrCode = "TEACHER_NOT_FOUND"
	ErrSubjectNotFound    ErrCode = "SUBJECT_NOT_FOUND"
	ErrAssignmentNotFound ErrCode = "ASSIGNMENT_NOT_FOUND"
	ErrEnrollmentNotFound ErrCode = "ENROLLMENT_NOT_FOUND"
	ErrConflict           ErrCode = "CONFLICT"
	ErrReferenceMissing   ErrCode = "REFERENCE_MISSING"

	// ─── Relationships ─────────────────────────────────────────────────
	ErrTeacherAlreadyAssigned   ErrCode = "TEACHER_ALREADY_ASSIGNED"
	ErrAlreadyEnrolled          ErrCode = "ALREADY_ENROLLED"
	ErrTeacherNotTeaching       ErrCode = "TEACHER_NOT_TEACHING_SUBJECT"
	ErrAssignmentRefMissing     ErrCode = "RELATION_REFERENCE_MISSING"
	ErrEnrollmentRefMissing     ErrCode = "ENROLLMENT_REFERENCE_MISSING"
	ErrAmbiguousEnrollment      ErrCode = "AMBIGUOUS_ENROLLMENT"
	ErrTeacherDeleteConflicting ErrCode = "TEACHER_DELETE_CONFLICT"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrTooManyFiles    ErrCode = "TOO_MANY_FILES"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Credenciales inválidas"
	case ErrTokenRequired:
		return "Token requerido"
	case ErrTokenInvalid:
		return "Token inválido"
	case ErrTokenExpired:
		return "Token expirado"
	case ErrTokenRevoked:
		return "La sesión fue cerrada. Inicia sesión de nuevo"

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "No tienes permiso para acceder a este recurso"

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Error de validación. Revisa los datos enviados"
	case ErrInvalidID:
		return "Formato de ID inválido"
	case ErrInvalidPayload:
		return "Cuerpo de la petición inválido"
	case ErrInvalidGrade:
		return "La calificación debe estar entre 0 y 10 con a lo más un decimal"
	case ErrInvalidFormat:
		return "Formato de reporte no soportado. Usa xlsx o pdf"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso no encontrado"
	case ErrStudentNotFound:
		return "Alumno no encontrado"
	case ErrTeacherNotFound:
		return "Maestro no encontrado"
	case ErrSubjectNotFound:
		return "Materia no encontrada"
	case ErrAssignmentNotFound:
		return "Relación no encontrada"
	case ErrEnrollmentNotFound:
		return "Inscripción no encontrada"
	case ErrConflict:
		return "El registro ya existe"
	case ErrReferenceMissing:
		return "El registro relacionado no existe"

	// ─── Relationships ─────────────────────────────────────────────────
	case ErrTeacherAlreadyAssigned:
		return "El maestro ya está asignado a esta materia"
	case ErrAlreadyEnrolled:
		return "El alumno ya está inscrito en esta materia con este maestro"
	case ErrTeacherNotTeaching:
		return "El maestro no enseña esta materia"
	case ErrAssignmentRefMissing:
		return "Maestro o materia no existen"
	case ErrEnrollmentRefMissing:
		return "Alumno, materia o maestro no existen"
	case ErrAmbiguousEnrollment:
		return "El alumno tiene varias inscripciones en esta materia. Indica maestro_id"
	case ErrTeacherDeleteConflicting:
		return "No se puede eliminar el maestro: un alumno quedaría inscrito dos veces sin maestro en la misma materia"

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "No se subió ningún archivo"
	case ErrUnsupportedFile:
		return "Tipo de archivo no permitido. Solo JPEG, JPG y PNG"
	case ErrFileTooLarge:
		return "El archivo excede el tamaño máximo de 5MB"
	case ErrTooManyFiles:
		return "Solo se permite un archivo por petición"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Demasiadas peticiones. Intenta de nuevo más tarde"

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Error interno del servidor"
	default:
		return "Ocurrió un error inesperado"
	}
}
