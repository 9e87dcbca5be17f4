package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Project errors
	ErrProjectNotFound = "PROJECT_NOT_FOUND"
	ErrProjectExists   = "PROJECT_EXISTS"
	ErrConfigInvalid   = "CONFIG_INVALID"
	ErrNoConnection    = "NO_CONNECTION"

	// Models errors
	ErrModelsInvalid  = "MODELS_INVALID"
	ErrEntityNotFound = "ENTITY_NOT_FOUND"
	ErrFieldNotFound  = "FIELD_NOT_FOUND"

	// Query errors
	ErrQueryInvalid  = "QUERY_INVALID"
	ErrFilterInvalid = "FILTER_INVALID"
	ErrSortInvalid   = "SORT_INVALID"

	// Database errors
	ErrDatabaseError = "DATABASE_ERROR"

	// Report errors
	ErrReportNotFound = "REPORT_NOT_FOUND"
	ErrReportInvalid  = "REPORT_INVALID"

	// History errors
	ErrNoHistory = "NO_HISTORY"

	// File errors
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)
