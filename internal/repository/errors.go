// Package repository contains data access logic separated from HTTP
// handlers. This file defines sentinel errors shared across repositories
// so handlers can translate failures into HTTP statuses without parsing
// driver messages.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist. Handlers
// translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation cannot proceed because of
// existing state, such as deleting an employee that still has attendance
// rows or approving a request that is not pending. Handlers translate it
// into HTTP 409.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
