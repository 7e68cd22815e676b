package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrTooLarge is returned when a file is too large to preview.
	ErrTooLarge = errors.New("too large")
	// ErrSuperseded is returned when a request has been replaced by a newer
	// request for the same resource key. It is a normal outcome, not a failure.
	ErrSuperseded = errors.New("superseded")
)
