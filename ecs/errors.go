package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

// Contract violations are reported by panicking with one of the error types
// below. Match them with errors.Is against the sentinels.
var (
	ErrBorrowConflict   = errors.New("ecs: borrow conflict")
	ErrEntityOutOfRange = errors.New("ecs: entity out of range")
	ErrTypeMismatch     = errors.New("ecs: container type mismatch")
	ErrMissingResource  = errors.New("ecs: missing resource")
	ErrGuardReleased    = errors.New("ecs: guard used after release")
	ErrGuardLeaked      = errors.New("ecs: guard outlived system step")
)

// BorrowError is raised when a guard is requested that conflicts with one
// already outstanding on the same column or resource.
type BorrowError struct {
	Type        reflect.Type
	Requested   AccessMode
	Held        AccessMode
	Outstanding int
}

func (e *BorrowError) Error() string {
	return fmt.Sprintf("ecs: cannot borrow %s as %s: already borrowed as %s (%d outstanding)",
		e.Type, e.Requested, e.Held, e.Outstanding)
}

func (e *BorrowError) Is(target error) bool {
	return target == ErrBorrowConflict
}

// EntityRangeError is raised when an operation names an entity that was never created.
type EntityRangeError struct {
	Entity Entity
	Count  int
}

func (e *EntityRangeError) Error() string {
	return fmt.Sprintf("ecs: entity %d out of range (entity count %d)", e.Entity, e.Count)
}

func (e *EntityRangeError) Is(target error) bool {
	return target == ErrEntityOutOfRange
}

// TypeMismatchError is raised when a stored container does not have the type
// its key promises.
type TypeMismatchError struct {
	Type      reflect.Type
	Container string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("ecs: container for %s has unexpected type %s", e.Type, e.Container)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// MissingResourceError is raised by the Must* accessors when a required resource
// was never added or has been removed.
type MissingResourceError struct {
	Type reflect.Type
}

func (e *MissingResourceError) Error() string {
	return fmt.Sprintf("ecs: resource %s has not been added", e.Type)
}

func (e *MissingResourceError) Is(target error) bool {
	return target == ErrMissingResource
}

// ReleasedGuardError is raised when a guard is used after Release.
type ReleasedGuardError struct {
	Type reflect.Type
}

func (e *ReleasedGuardError) Error() string {
	return fmt.Sprintf("ecs: guard over %s used after release", e.Type)
}

func (e *ReleasedGuardError) Is(target error) bool {
	return target == ErrGuardReleased
}

// LeakedGuardError is raised by the scheduler when a system returns while still
// holding a guard.
type LeakedGuardError struct {
	System string
	Type   reflect.Type
	Held   AccessMode
}

func (e *LeakedGuardError) Error() string {
	return fmt.Sprintf("ecs: system %s returned while holding a %s guard over %s", e.System, e.Held, e.Type)
}

func (e *LeakedGuardError) Is(target error) bool {
	return target == ErrGuardLeaked
}
