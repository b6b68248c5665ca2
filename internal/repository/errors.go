package repository

import "errors"

var (
	// ErrNotFound is returned when no recommendation matches the lookup.
	ErrNotFound = errors.New("recommendation not found")
	// ErrDuplicateName is returned when the unique name constraint rejects a write.
	ErrDuplicateName = errors.New("recommendation name already exists")
)
