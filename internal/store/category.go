// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"closet/internal/database"
	"closet/internal/models"
)

// CategoryStore manages categories in the database. The primary key on
// slug is the authority on uniqueness; callers may pre-check with Exists
// but must still expect ErrConflict from Insert and Update.
type CategoryStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB, d database.Dialect) *CategoryStore {
	return &CategoryStore{db: db, dialect: d}
}

const categoryColumns = `slug, name, parent`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	if err := scanner.Scan(&c.Slug, &c.Name, &c.Parent); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryStore) q(query string) string {
	return rebind(s.dialect, query)
}

// Exists reports whether a category with the given slug is stored.
func (s *CategoryStore) Exists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		s.q(`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = ?)`), slug,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category exists: %w", classify(err))
	}
	return exists, nil
}

// Get retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) Get(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, s.q(`SELECT `+categoryColumns+` FROM categories WHERE slug = ?`), slug)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", classify(err))
	}
	return c, nil
}

// Insert stores a new category.
func (s *CategoryStore) Insert(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx,
		s.q(`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?)`),
		c.Slug, c.Name, c.Parent,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", classify(err))
	}
	return nil
}

// Update replaces the category stored under oldSlug with c. When the slug
// changes, the row is re-keyed and every child pointing at oldSlug is moved
// to the new slug in the same transaction, so no reader ever sees a child
// whose parent does not resolve.
//
// A new parent is checked against the stored ancestor chain inside the
// transaction; ErrCycle is returned when the chain reaches oldSlug.
func (s *CategoryStore) Update(ctx context.Context, oldSlug string, c *models.Category) error {
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if c.Parent != nil {
			if err := s.checkAncestry(ctx, tx, oldSlug, c); err != nil {
				return err
			}
		}

		if c.Slug == oldSlug {
			res, err := tx.ExecContext(ctx,
				s.q(`UPDATE categories SET name = ?, parent = ? WHERE slug = ?`),
				c.Name, c.Parent, oldSlug,
			)
			if err != nil {
				return err
			}
			return requireRow(res)
		}

		var one int
		err := tx.QueryRowContext(ctx, s.q(`SELECT 1 FROM categories WHERE slug = ?`), oldSlug).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		// Insert under the new key first so the children can be re-pointed
		// without ever referencing a missing row.
		if _, err := tx.ExecContext(ctx,
			s.q(`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?)`),
			c.Slug, c.Name, c.Parent,
		); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			s.q(`UPDATE categories SET parent = ? WHERE parent = ?`),
			c.Slug, oldSlug,
		); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, s.q(`DELETE FROM categories WHERE slug = ?`), oldSlug)
		return err
	})
	if err != nil {
		return fmt.Errorf("update category %s: %w", oldSlug, classify(err))
	}
	return nil
}

// treeLockKey is the PostgreSQL advisory lock taken by every update that
// assigns a parent.
const treeLockKey = 7_341_062

// ancestorQuery reports whether the second argument is on the ancestor
// chain starting at the first. UNION stops at rows already visited, so a
// stored loop cannot recurse forever.
const ancestorQuery = `WITH RECURSIVE ancestors(slug, parent) AS (
	SELECT slug, parent FROM categories WHERE slug = ?
	UNION
	SELECT c.slug, c.parent FROM categories c JOIN ancestors a ON c.slug = a.parent
)
SELECT EXISTS (SELECT 1 FROM ancestors WHERE slug = ?)`

// checkAncestry fails with ErrCycle when c's parent chain passes through
// oldSlug or c's own new slug. On PostgreSQL concurrent reparenting is
// serialized with a transaction-scoped advisory lock so the walk sees
// every committed parent change; SQLite runs one writer at a time.
func (s *CategoryStore) checkAncestry(ctx context.Context, tx *sql.Tx, oldSlug string, c *models.Category) error {
	parent := *c.Parent
	if parent == oldSlug || parent == c.Slug {
		return ErrCycle
	}

	if s.dialect == database.Postgres {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, treeLockKey); err != nil {
			return err
		}
	}

	var cyclic bool
	if err := tx.QueryRowContext(ctx, s.q(ancestorQuery), parent, oldSlug).Scan(&cyclic); err != nil {
		return err
	}
	if cyclic {
		return ErrCycle
	}
	return nil
}

// Delete removes a category by slug. Its children become root categories
// in the same transaction.
func (s *CategoryStore) Delete(ctx context.Context, slug string) error {
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			s.q(`UPDATE categories SET parent = NULL WHERE parent = ?`), slug,
		); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, s.q(`DELETE FROM categories WHERE slug = ?`), slug)
		if err != nil {
			return err
		}
		return requireRow(res)
	})
	if err != nil {
		return fmt.Errorf("delete category %s: %w", slug, classify(err))
	}
	return nil
}

// ListAll returns every stored category in no particular order.
func (s *CategoryStore) ListAll(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", classify(err))
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", classify(err))
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", classify(err))
	}
	return items, nil
}

// Forest reads all categories and builds the display forest. It is
// rebuilt on every call.
func (s *CategoryStore) Forest(ctx context.Context) (models.Forest, error) {
	flat, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildForest(flat), nil
}

// requireRow returns ErrNotFound when the statement touched no rows.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
