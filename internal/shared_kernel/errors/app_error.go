package apperrors

type Type string

const (
	TypeValidation Type = "validation"
	TypeNotFound   Type = "not_found"
	TypeConflict   Type = "conflict"
	TypeCanceled   Type = "canceled"
	TypeInternal   Type = "internal"
)

type AppError struct {
	Type    Type           `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

// Is reports whether the error carries the given type. Nil errors match nothing.
func (e *AppError) Is(errType Type) bool {
	return e != nil && e.Type == errType
}

func NewInternal(code, message string, details map[string]any) *AppError {
	return newAppError(TypeInternal, code, message, details)
}

func NewValidation(code, message string, details map[string]any) *AppError {
	return newAppError(TypeValidation, code, message, details)
}

func NewNotFound(code, message string, details map[string]any) *AppError {
	return newAppError(TypeNotFound, code, message, details)
}

func NewConflict(code, message string, details map[string]any) *AppError {
	return newAppError(TypeConflict, code, message, details)
}

func NewCanceled(code, message string, details map[string]any) *AppError {
	return newAppError(TypeCanceled, code, message, details)
}

func newAppError(errType Type, code, message string, details map[string]any) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Details: details,
	}
}
