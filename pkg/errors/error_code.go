package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeMissingParameter     ErrorCode = 101
	ErrCodeInvalidConfiguration ErrorCode = 102

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound        ErrorCode = 200
	ErrCodePersistenceFailed   ErrorCode = 201
	ErrCodeUniverseUnavailable ErrorCode = 202

	// Strategy errors (400-499)
	ErrCodeStrategyNotFound        ErrorCode = 400
	ErrCodePluginNotFound          ErrorCode = 401
	ErrCodeStrategyConfigError     ErrorCode = 402
	ErrCodeEvaluationFailed        ErrorCode = 403
	ErrCodePluginAlreadyRegistered ErrorCode = 404
	ErrCodeVersionMismatch         ErrorCode = 405

	// Scheduling and notification errors (500-599)
	ErrCodeScheduleInvalid    ErrorCode = 500
	ErrCodeEventPublishFailed ErrorCode = 501

	// Provider errors (700-799)
	ErrCodeProviderFetchFailed   ErrorCode = 700
	ErrCodeProviderNotSupported  ErrorCode = 701
	ErrCodeProviderTimeout       ErrorCode = 702
	ErrCodeProviderNotRegistered ErrorCode = 703
)
