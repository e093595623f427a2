// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"errors"
	"fmt"

	"closet/internal/slug"
)

// Validation kinds. Every one of them is returned wrapped in a
// *ValidationError; match with errors.Is.
var (
	ErrNameRequired      = errors.New("name is required")
	ErrSlugRequired      = slug.ErrRequired
	ErrSlugInvalidFormat = slug.ErrInvalidFormat
	ErrSlugReserved      = slug.ErrReserved
	ErrSlugExists        = errors.New("slug exists")
	ErrParentNotFound    = errors.New("parent does not exist")
	ErrCyclicParent      = errors.New("category cannot be its own ancestor")
	ErrCategoryNotFound  = errors.New("category does not exist")
)

// ErrStorageUnavailable wraps storage failures unrelated to validation.
// The request fails; the service does not retry.
var ErrStorageUnavailable = errors.New("category storage unavailable")

// ValidationError reports which input field was rejected and why.
type ValidationError struct {
	Field string // "name", "slug", "parent" or "" for the addressed category
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, value string, err error) error {
	return &ValidationError{Field: field, Value: value, Err: err}
}

// IsValidation reports whether err is a recoverable validation outcome
// rather than a storage failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
