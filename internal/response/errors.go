package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "CREDENCIALES_INVALIDAS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUERIDO"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALIDO"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRADO"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "PROHIBIDO"
	ErrStudentOnly     ErrCode = "SOLO_ALUMNOS"
	ErrTeacherOnly     ErrCode = "SOLO_MAESTROS"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "ERROR_VALIDACION"
	ErrInvalidID      ErrCode = "ID_INVALIDO"
	ErrInvalidSubject ErrCode = "MATERIA_INVALIDA"
	ErrEmptyCohort    ErrCode = "COHORTE_VACIA"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NO_ENCONTRADO"

	// ─── Test-specific ─────────────────────────────────────────────────
	ErrTestNotFound ErrCode = "TEST_NO_ENCONTRADO"
	ErrNoQuestions  ErrCode = "SIN_PREGUNTAS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "DEMASIADAS_SOLICITUDES"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "ERROR_INTERNO"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Usuario o contraseña incorrectos."
	case ErrTokenRequired:
		return "Se requiere un token de autenticación."
	case ErrTokenInvalid:
		return "El token de autenticación no es válido."
	case ErrTokenExpired:
		return "El token de autenticación ha expirado."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "No tiene permiso para acceder a este recurso."
	case ErrStudentOnly:
		return "Este recurso está reservado para alumnos."
	case ErrTeacherOnly:
		return "Este recurso está reservado para maestros."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "La validación falló. Revise los datos enviados."
	case ErrInvalidID:
		return "El formato del ID no es válido."
	case ErrInvalidSubject:
		return "El tipo de test debe ser matematicas o comunicacion."
	case ErrEmptyCohort:
		return "La lista de alumnos no puede estar vacía."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso no encontrado."

	// ─── Test-specific ─────────────────────────────────────────────────
	case ErrTestNotFound:
		return "El test solicitado no existe."
	case ErrNoQuestions:
		return "El test no tiene preguntas y no puede calificarse."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Demasiadas solicitudes. Intente de nuevo más tarde."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocurrió un error interno del servidor."
	default:
		return "Ocurrió un error inesperado."
	}
}
