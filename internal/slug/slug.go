// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug validates the URL identifiers used as category keys.
package slug

import (
	"errors"
	"regexp"
)

var (
	// ErrRequired is returned for an empty slug.
	ErrRequired = errors.New("slug is required")
	// ErrInvalidFormat is returned when the slug contains anything other
	// than lowercase ASCII letters, digits and hyphens.
	ErrInvalidFormat = errors.New("slug is formatted incorrectly")
	// ErrReserved is returned for slugs that collide with route actions.
	ErrReserved = errors.New("slug is reserved")
)

// allowed is the full slug grammar.
var allowed = regexp.MustCompile(`^[a-z0-9-]+$`)

// reserved holds the action segments of the /categories URL space.
var reserved = map[string]bool{
	"add":    true,
	"edit":   true,
	"delete": true,
}

// Validate checks raw against the slug grammar and the reserved words and
// returns the normalized slug. It does not look at storage.
func Validate(raw string) (string, error) {
	if raw == "" {
		return "", ErrRequired
	}
	if !allowed.MatchString(raw) {
		return "", ErrInvalidFormat
	}
	if reserved[raw] {
		return "", ErrReserved
	}
	return raw, nil
}

// IsReserved reports whether s is one of the reserved action words.
func IsReserved(s string) bool {
	return reserved[s]
}
