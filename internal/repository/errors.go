package repository

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned when no request has the given reference.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when inserting a reference that already exists.
	ErrConflict = errors.New("conflict: reference already exists")
)

// ReferenceCounter names the counter that mints reference numbers.
const ReferenceCounter = "reference"
