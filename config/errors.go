package config

import "fmt"

// Error is a configuration error: an unknown name, a malformed filter
// expression or an invalid option combination. It is always detected before
// any input is read.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf returns a configuration error with a formatted message.
func Errorf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a configuration error wrapping err.
func Wrap(message string, err error) *Error {
	return &Error{Message: message, Err: err}
}
