package application

// Stable failure codes. Callers branch on these, never on messages.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeEmailExists         = "EMAIL_EXISTS"
	CodePasswordTooShort    = "PASSWORD_TOO_SHORT"
	CodePasswordNoUppercase = "PASSWORD_NO_UPPERCASE"
	CodePasswordNoLowercase = "PASSWORD_NO_LOWERCASE"
	CodePasswordNoNumber    = "PASSWORD_NO_NUMBER"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeActorNotFound       = "ACTOR_NOT_FOUND"
	CodeCannotDeleteSelf    = "CANNOT_DELETE_SELF"
	CodeCannotDeleteAdmin   = "CANNOT_DELETE_ADMIN"
	CodeCreateFailed        = "CREATE_FAILED"
	CodeUpdateFailed        = "UPDATE_FAILED"
	CodeDeleteFailed        = "DELETE_FAILED"
	CodeListFailed          = "LIST_FAILED"
	CodeGetFailed           = "GET_FAILED"
)

// Result is the two-variant outcome of every handler: success with data, or
// failure with a message and a stable code. Nothing panics or returns a raw
// error across this boundary.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func Fail[T any](code, message string) Result[T] {
	return Result[T]{Success: false, Code: code, Error: message}
}

// failErr wraps a lower-level error into a failure result, preserving the
// underlying message when available.
func failErr[T any](code string, err error, fallback string) Result[T] {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Fail[T](code, msg)
}
