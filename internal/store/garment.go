// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"closet/internal/database"
	"closet/internal/models"
)

// GarmentStore manages the append-only garment list.
type GarmentStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewGarmentStore returns a new GarmentStore.
func NewGarmentStore(db *sql.DB, d database.Dialect) *GarmentStore {
	return &GarmentStore{db: db, dialect: d}
}

// Create appends a garment and returns it with its assigned ID.
func (s *GarmentStore) Create(ctx context.Context, description string) (*models.Garment, error) {
	g := &models.Garment{
		Description: description,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	err := s.db.QueryRowContext(ctx,
		rebind(s.dialect, `INSERT INTO garments (description, created_at) VALUES (?, ?) RETURNING id`),
		g.Description, g.CreatedAt,
	).Scan(&g.ID)
	if err != nil {
		return nil, fmt.Errorf("create garment: %w", classify(err))
	}
	return g, nil
}

// ListRecent returns all garments, newest first.
func (s *GarmentStore) ListRecent(ctx context.Context) ([]models.Garment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, description, created_at FROM garments ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list garments: %w", classify(err))
	}
	defer rows.Close()

	var items []models.Garment
	for rows.Next() {
		var g models.Garment
		if err := rows.Scan(&g.ID, &g.Description, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan garment: %w", classify(err))
		}
		items = append(items, g)
	}
	return items, rows.Err()
}
