// Package repository implements raw-SQL data access for the portal
// tables. This file defines sentinel errors shared across the
// repositories so handlers can map failure scenarios to HTTP codes.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update or delete cannot proceed due
// to conflicting state. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned for lookups of UUID-keyed rows (bookings,
// sections, meetings, documents) that do not exist. Handlers translate
// this into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a user insert collides with the
// unique email index. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
