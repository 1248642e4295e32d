package repository

import "errors"

var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a write violates the unique email index
	ErrDuplicate = errors.New("duplicate record")
)
