// Package services defines the business logic for intake submissions.
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages and HTTP status codes is done by the
// handler layer.
package services

import "errors"

// Validation errors (400).
var (
	// ErrMissingField is returned when any of the six intake fields is
	// absent or blank.
	ErrMissingField = errors.New("all fields are required")

	// ErrInvalidNumber is returned in strict mode when age or weight does not
	// parse to a finite number.
	ErrInvalidNumber = errors.New("age and weight must be numeric")

	// ErrInvalidUnits is returned for a unit system other than metric or imperial.
	ErrInvalidUnits = errors.New("units must be metric or imperial")

	// ErrInvalidID is returned when a submission id is not an unsigned
	// base-10 integer. It is detected before the store is consulted.
	ErrInvalidID = errors.New("invalid id parameter")
)

// Lookup and storage errors.
var (
	// ErrSubmissionNotFound indicates that no submission has the requested id.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrPersistence wraps any store failure. Callers surface it as a generic
	// server error and never retry.
	ErrPersistence = errors.New("persistence failure")
)
