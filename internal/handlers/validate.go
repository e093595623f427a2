// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"closet/internal/services/category"
)

// maxDescriptionLen caps garment descriptions.
const maxDescriptionLen = 1_000

// validateGarment checks the garment form input and returns the first error found.
func validateGarment(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return "Description is required."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 1,000 characters)."
	}
	return ""
}

// categoryMessage turns a category validation error into the text shown
// to the user. It returns "" for errors that are not validation failures.
func categoryMessage(err error) string {
	var value string
	var ve *category.ValidationError
	if errors.As(err, &ve) {
		value = ve.Value
	}

	switch {
	case errors.Is(err, category.ErrNameRequired):
		return "Name is required"
	case errors.Is(err, category.ErrSlugRequired):
		return "Slug is required"
	case errors.Is(err, category.ErrSlugInvalidFormat):
		return "Slug is formatted incorrectly"
	case errors.Is(err, category.ErrSlugReserved):
		return fmt.Sprintf("Slug %q is not allowed", value)
	case errors.Is(err, category.ErrSlugExists):
		return "Slug exists"
	case errors.Is(err, category.ErrParentNotFound):
		return "Parent does not exist"
	case errors.Is(err, category.ErrCyclicParent):
		return "Category cannot be its own ancestor"
	case errors.Is(err, category.ErrCategoryNotFound):
		return value + " does not exist"
	}
	return ""
}
