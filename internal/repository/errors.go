// Package repository implements the data access layer on top of
// database/sql. Sentinel errors defined here let handlers translate
// failures into HTTP status codes without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when an id does not resolve to a row, or a
// write targeted a row that no longer exists. Handlers translate this
// into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
