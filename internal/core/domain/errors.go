package domain

import (
	"errors"
	"fmt"
)

// Code is a stable error code surfaced to API clients.
type Code string

const (
	CodeNotFound   Code = "NOT_FOUND"
	CodeEmailTaken Code = "EMAIL_TAKEN"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// NotFoundError reports that no active user (or, for deletion, no user at
// all) matched Field = Value.
type NotFoundError struct {
	Field string
	Value any
}

func NewNotFoundByID(id int64) *NotFoundError {
	return &NotFoundError{Field: "id", Value: id}
}

func NewNotFoundByEmail(email string) *NotFoundError {
	return &NotFoundError{Field: "email", Value: email}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("user with %s %v not found", e.Field, e.Value)
}

func (e *NotFoundError) Unwrap() error { return ErrUserNotFound }

func (e *NotFoundError) Code() Code { return CodeNotFound }

// ConflictError reports an insert that collided with an existing email,
// whether the collision was caught by the pre-check or by the unique
// constraint.
type ConflictError struct {
	Email string
	Err   error
}

func NewConflictError(email string, err error) *ConflictError {
	return &ConflictError{Email: email, Err: err}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("email %s is already registered", e.Email)
}

func (e *ConflictError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrEmailTaken}
	}

	return []error{ErrEmailTaken, e.Err}
}

func (e *ConflictError) Code() Code { return CodeEmailTaken }

func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsEmailTaken(err error) bool {
	return errors.Is(err, ErrEmailTaken)
}
