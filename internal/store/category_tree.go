// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"cmp"
	"slices"

	"closet/internal/models"
)

// BuildForest builds the ordered display forest from a flat list. Siblings
// are sorted by name compared case-insensitively over ASCII, with the slug
// breaking ties. A category whose parent is not in the list is shown as a
// root so nothing drops out of the display.
func BuildForest(flat []models.Category) models.Forest {
	present := make(map[string]bool, len(flat))
	for _, c := range flat {
		present[c.Slug] = true
	}

	var roots []models.Category
	byParent := make(map[string][]models.Category)
	for _, c := range flat {
		if c.Parent == nil || !present[*c.Parent] {
			roots = append(roots, c)
			continue
		}
		byParent[*c.Parent] = append(byParent[*c.Parent], c)
	}

	visited := make(map[string]bool, len(flat))
	forest := buildNodes(roots, byParent, visited)

	// Rows caught in a parent cycle are unreachable from any root; surface
	// them as roots rather than hiding them.
	if len(visited) < len(flat) {
		var orphans []models.Category
		for _, c := range flat {
			if !visited[c.Slug] {
				orphans = append(orphans, c)
			}
		}
		sortCategories(orphans)
		for _, c := range orphans {
			if visited[c.Slug] {
				continue
			}
			forest = append(forest, buildNodes([]models.Category{c}, byParent, visited)...)
		}
	}

	return models.Forest(forest)
}

// buildNodes recursively builds sorted nodes for cats and their children.
func buildNodes(cats []models.Category, byParent map[string][]models.Category, visited map[string]bool) []models.CategoryNode {
	sortCategories(cats)
	nodes := make([]models.CategoryNode, 0, len(cats))
	for _, c := range cats {
		if visited[c.Slug] {
			continue
		}
		visited[c.Slug] = true
		nodes = append(nodes, models.CategoryNode{
			Category: c,
			Children: buildNodes(byParent[c.Slug], byParent, visited),
		})
	}
	return nodes
}

func sortCategories(cats []models.Category) {
	slices.SortFunc(cats, compareCategories)
}

// compareCategories orders by ASCII case-folded name, then by slug.
func compareCategories(a, b models.Category) int {
	return cmp.Or(
		cmp.Compare(foldASCII(a.Name), foldASCII(b.Name)),
		cmp.Compare(a.Slug, b.Slug),
	)
}

// foldASCII lowercases A-Z only; other bytes compare as-is.
func foldASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if 'A' <= b[j] && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
