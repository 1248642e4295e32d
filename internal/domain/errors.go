package domain

import (
	"errors"
	"fmt"
)

// Application errors
var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate дубликат записи
	ErrDuplicate = errors.New("duplicate record")

	// ErrInvalidInput неверные входные данные
	ErrInvalidInput = errors.New("invalid input data")
)

// ValidationError is a single field violation
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects field violations, at most one per field
type ValidationErrors []ValidationError

// Error реализует интерфейс error
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	if len(e) == 1 {
		return fmt.Sprintf("validation failed: %s - %s", e[0].Field, e[0].Message)
	}

	return fmt.Sprintf("validation failed: %d errors", len(e))
}

// Is lets errors.Is(err, ErrInvalidInput) match validation failures
func (e ValidationErrors) Is(target error) bool {
	return target == ErrInvalidInput
}

// Add records a violation. The first message registered for a field wins.
func (e *ValidationErrors) Add(field, message string) {
	if e.GetByField(field) != "" {
		return
	}
	*e = append(*e, ValidationError{Field: field, Message: message})
}

// GetByField возвращает сообщение об ошибке для указанного поля
func (e ValidationErrors) GetByField(field string) string {
	for _, err := range e {
		if err.Field == field {
			return err.Message
		}
	}
	return ""
}

// Map returns the violations keyed by field name
func (e ValidationErrors) Map() map[string]string {
	m := make(map[string]string, len(e))
	for _, err := range e {
		m[err.Field] = err.Message
	}
	return m
}

// NotFoundError представляет ошибку "не найдено"
type NotFoundError struct {
	Entity string
	Field  string
	ID     string
}

// Error реализует интерфейс error
func (e *NotFoundError) Error() string {
	field := e.Field
	if field == "" {
		field = "ID"
	}
	return fmt.Sprintf("%s not found with %s: %s", e.Entity, field, e.ID)
}

// Is проверяет, является ли ошибка ошибкой типа "не найдено"
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError создает новую ошибку "не найдено"
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// NewCustomerNotFoundError reports a missing customer id
func NewCustomerNotFoundError(id string) *NotFoundError {
	return NewNotFoundError("Customer", id)
}

// DuplicateError представляет ошибку дубликата
type DuplicateError struct {
	Entity string
	Field  string
	Value  string
}

// Error реализует интерфейс error
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s '%s' already exists", e.Entity, e.Field, e.Value)
}

// Is проверяет, является ли ошибка ошибкой дубликата
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// NewDuplicateError создает новую ошибку дубликата
func NewDuplicateError(entity, field, value string) *DuplicateError {
	return &DuplicateError{
		Entity: entity,
		Field:  field,
		Value:  value,
	}
}

// NewDuplicateEmailError reports an email already held by another customer
func NewDuplicateEmailError(email string) *DuplicateError {
	return NewDuplicateError("Customer", "email", email)
}
