// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package category implements the category catalog rules: slug grammar,
// uniqueness, parent existence and acyclicity. It is the only component
// that mutates categories.
package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"closet/internal/models"
	"closet/internal/slug"
	"closet/internal/store"
)

// Repository is the storage the service needs. *store.CategoryStore
// satisfies it.
type Repository interface {
	Exists(ctx context.Context, slug string) (bool, error)
	Get(ctx context.Context, slug string) (*models.Category, error)
	Insert(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, oldSlug string, c *models.Category) error
	Delete(ctx context.Context, slug string) error
	Forest(ctx context.Context) (models.Forest, error)
}

// AddParams holds the input for creating a category.
type AddParams struct {
	Name   string
	Slug   string
	Parent *string // nil or blank = root category.
}

// EditParams holds the input for updating a category. Name, slug and
// parent are all replaced in one operation.
type EditParams struct {
	Name   string
	Slug   string
	Parent *string // nil or blank = root category.
}

// Service provides business logic for category operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new category service backed by repo.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Add validates and stores a new category.
func (s *Service) Add(ctx context.Context, params AddParams) (*models.Category, error) {
	c, err := s.validate(ctx, params.Name, params.Slug, params.Parent)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, c.Slug)
	if err != nil {
		return nil, unavailable("checking slug", err)
	}
	if exists {
		return nil, invalid("slug", c.Slug, ErrSlugExists)
	}

	if err := s.repo.Insert(ctx, c); err != nil {
		return nil, s.storeError(c, "inserting category", err)
	}

	s.logger.Info("category created", "slug", c.Slug, "parent", c.ParentSlug())
	return c, nil
}

// Edit replaces the category stored under existingSlug. Renaming moves
// every child to the new slug atomically.
func (s *Service) Edit(ctx context.Context, existingSlug string, params EditParams) (*models.Category, error) {
	current, err := s.repo.Get(ctx, existingSlug)
	if err != nil {
		return nil, unavailable("getting category", err)
	}
	if current == nil {
		return nil, invalid("", existingSlug, ErrCategoryNotFound)
	}

	c, err := s.validate(ctx, params.Name, params.Slug, params.Parent)
	if err != nil {
		return nil, err
	}

	if c.Parent != nil {
		if err := s.checkAncestry(ctx, existingSlug, *c.Parent); err != nil {
			return nil, err
		}
	}

	if c.Slug != existingSlug {
		exists, err := s.repo.Exists(ctx, c.Slug)
		if err != nil {
			return nil, unavailable("checking slug", err)
		}
		if exists {
			return nil, invalid("slug", c.Slug, ErrSlugExists)
		}
	}

	if err := s.repo.Update(ctx, existingSlug, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalid("", existingSlug, ErrCategoryNotFound)
		}
		return nil, s.storeError(c, "updating category", err)
	}

	s.logger.Info("category updated", "slug", existingSlug, "new_slug", c.Slug, "parent", c.ParentSlug())
	return c, nil
}

// Delete removes a category. Its children become root categories.
func (s *Service) Delete(ctx context.Context, slugValue string) error {
	if err := s.repo.Delete(ctx, slugValue); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalid("", slugValue, ErrCategoryNotFound)
		}
		return unavailable("deleting category", err)
	}
	s.logger.Info("category deleted", "slug", slugValue)
	return nil
}

// Get returns the category stored under slug, or ErrCategoryNotFound.
func (s *Service) Get(ctx context.Context, slugValue string) (*models.Category, error) {
	c, err := s.repo.Get(ctx, slugValue)
	if err != nil {
		return nil, unavailable("getting category", err)
	}
	if c == nil {
		return nil, invalid("", slugValue, ErrCategoryNotFound)
	}
	return c, nil
}

// Forest returns the ordered category forest, built fresh from storage.
func (s *Service) Forest(ctx context.Context) (models.Forest, error) {
	f, err := s.repo.Forest(ctx)
	if err != nil {
		return nil, unavailable("building category forest", err)
	}
	return f, nil
}

// FindNode returns the node for slug with its ordered children, or
// ErrCategoryNotFound.
func (s *Service) FindNode(ctx context.Context, slugValue string) (*models.CategoryNode, error) {
	f, err := s.Forest(ctx)
	if err != nil {
		return nil, err
	}
	n := f.Find(slugValue)
	if n == nil {
		return nil, invalid("", slugValue, ErrCategoryNotFound)
	}
	return n, nil
}

// validate runs the checks shared by Add and Edit, in order: name, slug
// grammar, parent existence. It returns the category to store.
func (s *Service) validate(ctx context.Context, name, rawSlug string, rawParent *string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", name, ErrNameRequired)
	}

	normalized, err := slug.Validate(rawSlug)
	if err != nil {
		return nil, invalid("slug", rawSlug, err)
	}

	c := &models.Category{Slug: normalized, Name: name}

	if rawParent != nil {
		if parent := strings.TrimSpace(*rawParent); parent != "" {
			exists, err := s.repo.Exists(ctx, parent)
			if err != nil {
				return nil, unavailable("checking parent", err)
			}
			if !exists {
				return nil, invalid("parent", parent, ErrParentNotFound)
			}
			c.Parent = &parent
		}
	}
	return c, nil
}

// checkAncestry walks up from parent and fails if it reaches slugValue.
// A category naming itself as parent is caught on the first step. The
// store repeats the check inside the update transaction, which is what
// holds under concurrent edits.
func (s *Service) checkAncestry(ctx context.Context, slugValue, parent string) error {
	seen := make(map[string]bool)
	for cur := parent; cur != ""; {
		if cur == slugValue {
			return invalid("parent", parent, ErrCyclicParent)
		}
		if seen[cur] {
			// An existing loop that does not pass through slugValue.
			return nil
		}
		seen[cur] = true

		c, err := s.repo.Get(ctx, cur)
		if err != nil {
			return unavailable("walking ancestors", err)
		}
		if c == nil {
			return nil
		}
		cur = c.ParentSlug()
	}
	return nil
}

// storeError maps a failed write onto the service error kinds. The
// primary key may reject a slug that passed the existence check when
// another writer got there first.
func (s *Service) storeError(c *models.Category, op string, err error) error {
	switch {
	case errors.Is(err, store.ErrConflict):
		s.logger.Warn("category slug taken concurrently", "slug", c.Slug)
		return invalid("slug", c.Slug, ErrSlugExists)
	case errors.Is(err, store.ErrParentMissing):
		return invalid("parent", c.ParentSlug(), ErrParentNotFound)
	case errors.Is(err, store.ErrCycle):
		return invalid("parent", c.ParentSlug(), ErrCyclicParent)
	default:
		return unavailable(op, err)
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
