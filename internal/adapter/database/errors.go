package database

import "errors"

// ErrUniqueViolation is returned by a gateway when a statement hits a unique
// constraint. Repositories translate it into a domain error.
var ErrUniqueViolation = errors.New("unique constraint violation")
