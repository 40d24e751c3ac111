package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries an optional per-field breakdown alongside the
// top-level message.
type ValidationError struct {
	ErrorMessage
	Fields []FieldError
}

// AuthError covers bad credentials and bad or expired tokens. Login failures
// always use the same message so callers cannot probe which accounts exist.
type AuthError struct {
	ErrorMessage
}

// NotFoundError also covers resources owned by someone else; the two cases
// are deliberately indistinguishable to the caller.
type NotFoundError struct {
	ErrorMessage
}

type AlreadyExistsError struct {
	ErrorMessage
}

// DatabaseError wraps a store failure with the operation that produced it.
type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

func NewValidationError(message string, fields ...FieldError) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
		Fields:       fields,
	}
}

func NewAuthError(message string) *AuthError {
	return &AuthError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewAlreadyExistsError(message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}
