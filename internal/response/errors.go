package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrRoleNotPermitted  ErrCode = "ROLE_NOT_PERMITTED"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrTrainerAccessOnly ErrCode = "TRAINER_ACCESS_ONLY"
	ErrNotCourseOwner    ErrCode = "NOT_COURSE_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Assessment-specific ───────────────────────────────────────────
	ErrEditAfterPublish ErrCode = "EDIT_AFTER_PUBLISH"
	ErrNotAssigned      ErrCode = "NOT_ASSIGNED"
	ErrNotAvailable     ErrCode = "NOT_AVAILABLE"
	ErrQuotaExceeded    ErrCode = "QUOTA_EXCEEDED"
	ErrAlreadySubmitted ErrCode = "ALREADY_SUBMITTED"
	ErrResultNotReady   ErrCode = "RESULT_NOT_READY"
	ErrNoQuestions      ErrCode = "NO_QUESTIONS"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrRoleNotPermitted:
		return "Your role does not permit this action."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrTrainerAccessOnly:
		return "This resource is restricted to placement trainers."
	case ErrNotCourseOwner:
		return "You are not the trainer who owns this course."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Assessment-specific ───────────────────────────────────────────
	case ErrEditAfterPublish:
		return "Questions cannot be modified after the test is published."
	case ErrNotAssigned:
		return "The test is not assigned to the required cohort."
	case ErrNotAvailable:
		return "This test is not currently available to you."
	case ErrQuotaExceeded:
		return "You have used all permitted attempts for this test."
	case ErrAlreadySubmitted:
		return "This attempt has already been submitted."
	case ErrResultNotReady:
		return "The result is not available until the attempt is submitted."
	case ErrNoQuestions:
		return "This test has no questions."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
