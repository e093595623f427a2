// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category is a node in the user-defined garment hierarchy. Slug is the
// primary key and the value other categories store in Parent.
type Category struct {
	Slug   string  `json:"slug"`
	Name   string  `json:"name"`
	Parent *string `json:"parent"` // nil = root category
}

// IsRoot reports whether the category has no parent.
func (c Category) IsRoot() bool {
	return c.Parent == nil
}

// ParentSlug returns the parent slug, or "" for a root category.
func (c Category) ParentSlug() string {
	if c.Parent == nil {
		return ""
	}
	return *c.Parent
}

// CategoryNode is a category together with its ordered children.
type CategoryNode struct {
	Category Category       `json:"category"`
	Children []CategoryNode `json:"children,omitempty"`
}

// IsEmpty reports whether the node has no child categories.
func (n *CategoryNode) IsEmpty() bool {
	return len(n.Children) == 0
}

// Forest is the ordered list of root nodes.
type Forest []CategoryNode

// Find returns the node for slug, searching depth-first, or nil.
func (f Forest) Find(slug string) *CategoryNode {
	for i := range f {
		if f[i].Category.Slug == slug {
			return &f[i]
		}
		if n := Forest(f[i].Children).Find(slug); n != nil {
			return n
		}
	}
	return nil
}

// Walk visits every node depth-first in display order, passing its depth.
func (f Forest) Walk(fn func(n *CategoryNode, depth int)) {
	var walk func(nodes []CategoryNode, depth int)
	walk = func(nodes []CategoryNode, depth int) {
		for i := range nodes {
			fn(&nodes[i], depth)
			walk(nodes[i].Children, depth+1)
		}
	}
	walk(f, 0)
}
