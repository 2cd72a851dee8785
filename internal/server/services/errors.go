package services

import "github.com/dmitrijs2005/blogdesk/internal/common"

// ValidationError rejects user input. Message is shown to the client as is.
// It matches common.ErrorValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrorValidation
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
