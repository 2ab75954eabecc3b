package model

import "fmt"

type ErrorWithCode interface {
	Error() string
	Code() string
}

type Error struct {
	ErrCode string `json:"code"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) Code() string {
	return e.ErrCode
}

// Fmt creates a new error from the base error template with provided arguments
func (e Error) Fmt(args ...any) Error {
	return Error{
		ErrCode: e.ErrCode,
		Message: fmt.Sprintf(e.Message, args...),
	}
}

func NewError(code, message string) Error {
	return Error{
		ErrCode: code,
		Message: message,
	}
}

var (
	ErrValidation       = NewError("validation", "Validation error: %s")
	ErrResourceNotFound = NewError("resource.not_found", "Resource not found")

	ErrOwnerBusy       = NewError("transfer.busy", "A transfer for owner %s is already in progress")
	ErrQueueFull       = NewError("transfer.queue_full", "The relay queue is full, try again later")
	ErrSizeLimit       = NewError("transfer.size_limit", "Object size %s exceeds the hard ceiling of %s")
	ErrSourceRead      = NewError("transfer.source_read", "Failed to read the object from its source: %s")
	ErrLadderExhausted = NewError("transfer.ladder_exhausted", "The backend rejected every chunk size; reduce the object size or use a different namespace class")
)
