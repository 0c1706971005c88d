// Package repository implements persistence access over database/sql. Each
// repository is scoped to one entity family and operates over the DBTX the
// unit of work binds it to. Sentinel errors let services translate storage
// failures into domain failures without leaking engine error text.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// such as a second application by the same volunteer for the same event.
var ErrDuplicate = errors.New("duplicate entry")

// isDuplicate detects MySQL duplicate-key violations (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
