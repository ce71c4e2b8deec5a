package errors

// Error codes for standardized error responses
const (
	// Authentication errors
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeAuthenticationRequired = "authentication_required"

	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"

	// Resource errors
	ErrCodeNotFound = "not_found"
	ErrCodeConflict = "conflict"

	// Question bank errors
	ErrCodeTypeImmutable   = "question_type_immutable"
	ErrCodeSequenceCorrupt = "sequence_corrupt"
	ErrCodeImportFailed    = "import_failed"

	// Server errors
	ErrCodeInternalError      = "internal_error"
	ErrCodeStorageUnavailable = "storage_unavailable"
)
