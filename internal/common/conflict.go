package common

// ConflictError is a state conflict with a message meant for the caller.
// It matches ErrorConflict with errors.Is.
type ConflictError struct {
	Message string
}

func NewConflictError(msg string) *ConflictError {
	return &ConflictError{Message: msg}
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return ErrorConflict
}
