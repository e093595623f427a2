// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access for the closet catalog. Each
// store wraps a *sql.DB and exposes typed, context-aware query methods.
package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"closet/internal/database"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when the storage layer rejects a row because
	// its primary key is already taken.
	ErrConflict = errors.New("conflict")
	// ErrParentMissing is returned when a foreign key points at a row that
	// does not exist.
	ErrParentMissing = errors.New("parent missing")
	// ErrCycle is returned when a new parent would make a category its
	// own ancestor.
	ErrCycle = errors.New("parent cycle")
	// ErrUnavailable wraps every other storage failure.
	ErrUnavailable = errors.New("storage unavailable")
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify maps a driver error onto the store error kinds. Uniqueness and
// foreign key violations become ErrConflict and ErrParentMissing; anything
// else is wrapped with ErrUnavailable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrParentMissing) || errors.Is(err, ErrCycle) ||
		errors.Is(err, ErrUnavailable) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrConflict
		case pgForeignKeyViolation:
			return ErrParentMissing
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return ErrConflict
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ErrParentMissing
		}
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			if strings.Contains(liteErr.Error(), "FOREIGN KEY") {
				return ErrParentMissing
			}
			return ErrConflict
		}
	}

	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// rebind rewrites ? placeholders into the $N form PostgreSQL expects.
// Queries in this package never contain a literal question mark.
func rebind(d database.Dialect, query string) string {
	if d != database.Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
