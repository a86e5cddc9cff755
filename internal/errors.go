package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation       ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound         ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized     ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden        ErrorType = "FORBIDDEN"
	ErrorTypeConflict         ErrorType = "CONFLICT"
	ErrorTypeInvalidOperation ErrorType = "INVALID_OPERATION"
	ErrorTypeRateLimited      ErrorType = "RATE_LIMITED"
	ErrorTypeInternal         ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"
	ErrCodeInvalidRank      ErrorCode = "INVALID_RANK"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidPerm      ErrorCode = "INVALID_PERMISSION"
	ErrCodeMissingFields    ErrorCode = "MISSING_FIELDS"
	ErrCodePasswordTooShort ErrorCode = "PASSWORD_TOO_SHORT"
	ErrCodeUsernameTooShort ErrorCode = "USERNAME_TOO_SHORT"

	ErrCodeUnknownUsername    ErrorCode = "UNKNOWN_USERNAME"
	ErrCodeWrongPassword      ErrorCode = "WRONG_PASSWORD"
	ErrCodeWrongCurrentPass   ErrorCode = "WRONG_CURRENT_PASSWORD"
	ErrCodeNoSession          ErrorCode = "NO_SESSION"
	ErrCodeMissingPermission  ErrorCode = "MISSING_PERMISSION"
	ErrCodeAdminRequired      ErrorCode = "ADMIN_REQUIRED"
	ErrCodeUsernameTaken      ErrorCode = "USERNAME_TAKEN"
	ErrCodeSelfModification   ErrorCode = "SELF_MODIFICATION"
	ErrCodeSelfDeletion       ErrorCode = "SELF_DELETION"
	ErrCodeResetTokenInvalid  ErrorCode = "RESET_TOKEN_INVALID"
	ErrCodeResetTokenUnknown  ErrorCode = "RESET_TOKEN_UNKNOWN"
	ErrCodeResetTokenConsumed ErrorCode = "RESET_TOKEN_CONSUMED"
	ErrCodeResetTokenExpired  ErrorCode = "RESET_TOKEN_EXPIRED"
	ErrCodeTooManyAttempts    ErrorCode = "TOO_MANY_ATTEMPTS"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeRecordNotFound     ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeNotCommunityMember ErrorCode = "NOT_COMMUNITY_MEMBER"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

// Field returns the first field named in the validation details, if any.
func (e *AppError) Field() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		return validationErrors.Errors[0].Field
	}
	return ""
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so package-level sentinels work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewValidationFieldError carries the field-scoped message as the top-level
// message so clients can render it directly.
func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewConflictError renders as 400 to keep the registration contract.
func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewInvalidOperationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidOperation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewRateLimitedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeRateLimited,
		Code:       ErrCodeTooManyAttempts,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

const (
	MsgServerError      = "حدث خطأ في الخادم"
	MsgUnauthorized     = "Unauthorized"
	MsgForbidden        = "ليس لديك صلاحية للقيام بهذا الإجراء"
	MsgAdminRequired    = "يجب أن تمتلك صلاحية إدارة المستخدمين"
	MsgInvalidUserID    = "معرف المستخدم غير صالح"
	MsgInvalidID        = "معرف غير صالح"
	MsgNotFound         = "غير موجود"
	MsgTooManyAttempts  = "محاولات كثيرة، يرجى المحاولة لاحقاً"
	MsgInvalidBody      = "البيانات غير صالحة"
	MsgPasswordTooShort = "كلمة المرور يجب أن تكون 4 أحرف على الأقل"
)

var (
	ErrUnauthorized      = NewUnauthorizedError(MsgUnauthorized, ErrCodeNoSession)
	ErrForbidden         = NewForbiddenError(MsgForbidden, ErrCodeMissingPermission)
	ErrAdminRequired     = NewForbiddenError(MsgAdminRequired, ErrCodeAdminRequired)
	ErrInvalidUserID     = NewValidationError(MsgInvalidUserID, ErrCodeInvalidID)
	ErrInvalidID         = NewValidationError(MsgInvalidID, ErrCodeInvalidID)
	ErrRecordNotFound    = NewNotFoundError(MsgNotFound, ErrCodeRecordNotFound)
	ErrInvalidBody       = NewValidationError(MsgInvalidBody, ErrCodeValidationFailed)
	ErrTooManyAttempts   = NewRateLimitedError(MsgTooManyAttempts)
	ErrPasswordTooShort  = NewValidationFieldError("newPassword", MsgPasswordTooShort, ErrCodePasswordTooShort)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Success bool        `json:"success"`
	Type    ErrorType   `json:"type"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{
		Success: false,
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Field:   e.Field(),
		Details: e.Details,
	}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
