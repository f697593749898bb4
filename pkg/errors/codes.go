package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeTimeout            ErrorCode = "COMMON_004"
	ErrCodeSerialization      ErrorCode = "COMMON_005"
	ErrCodeCacheError         ErrorCode = "COMMON_006"
	ErrCodeExternalService    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeNotImplemented     ErrorCode = "COMMON_009"
)

// Visibility Engine Error Codes
//
// These four codes form the engine's complete propagation taxonomy.
// Validation and strict-mode configuration errors surface to callers;
// provider and computation errors are always recovered locally behind a
// documented fallback and only ever appear in logs.
const (
	ErrCodeValidation    ErrorCode = "VIS_001"
	ErrCodeProvider      ErrorCode = "VIS_002"
	ErrCodeComputation   ErrorCode = "VIS_003"
	ErrCodeConfiguration ErrorCode = "VIS_004"
)

// Aliases kept short for call-site readability.
const (
	CodeInternal      = ErrCodeInternal
	CodeInvalidParam  = ErrCodeBadRequest
	CodeNotFound      = ErrCodeNotFound
	CodeValidation    = ErrCodeValidation
	CodeProvider      = ErrCodeProvider
	CodeComputation   = ErrCodeComputation
	CodeConfiguration = ErrCodeConfiguration

	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)
