// Package repository contains the data access layer, separated from
// HTTP handlers and from the booking domain services. This file defines
// sentinel error values reused across repositories so higher layers can
// distinguish failure scenarios with errors.Is instead of inspecting
// driver-specific errors.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource outside their visibility scope.
var ErrForbidden = errors.New("forbidden")

// ErrInsufficientCapacity is returned by the capacity allocator when a
// class session cannot accommodate the requested student count. The
// conditional decrement matched zero rows, so nothing was written.
var ErrInsufficientCapacity = errors.New("insufficient capacity")

// ErrReferenceExists is returned when a generated booking reference
// collides with an existing one. Callers retry with a fresh code.
var ErrReferenceExists = errors.New("booking reference already exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (errno 1062) without importing the driver package here.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "1062") || strings.Contains(msg, "Duplicate entry")
}
