// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"closet/internal/models"
	"closet/internal/render"
	"closet/internal/services/category"
	"closet/internal/session"
)

// Categories groups the category browsing and editing handlers. All
// rules live in the category service; these handlers only translate
// between forms and service calls.
type Categories struct {
	pages
	service *category.Service
}

// NewCategories creates a new Categories handler group.
func NewCategories(renderer *render.Renderer, sessions *session.Store, service *category.Service) *Categories {
	return &Categories{
		pages:   pages{renderer: renderer, sessions: sessions},
		service: service,
	}
}

// categoryForm carries the values shown in the add and edit forms.
type categoryForm struct {
	Name   string
	Slug   string
	Parent string
}

func formFromRequest(r *http.Request) categoryForm {
	return categoryForm{
		Name:   r.PostFormValue("name"),
		Slug:   r.PostFormValue("slug"),
		Parent: r.PostFormValue("parent"),
	}
}

// parentOption is one entry of the parent <select>.
type parentOption struct {
	Slug  string
	Name  string
	Depth int
}

// parentOptions flattens the forest into select options. When exclude is
// set, that category and its descendants are left out since none of them
// can become its parent.
func parentOptions(f models.Forest, exclude string) []parentOption {
	var opts []parentOption
	skipBelow := -1
	f.Walk(func(n *models.CategoryNode, depth int) {
		if skipBelow >= 0 {
			if depth > skipBelow {
				return
			}
			skipBelow = -1
		}
		if exclude != "" && n.Category.Slug == exclude {
			skipBelow = depth
			return
		}
		opts = append(opts, parentOption{Slug: n.Category.Slug, Name: n.Category.Name, Depth: depth})
	})
	return opts
}

// List renders the whole category forest.
func (c *Categories) List(w http.ResponseWriter, r *http.Request) {
	forest, err := c.service.Forest(r.Context())
	if err != nil {
		c.unavailable(w, r, err)
		return
	}

	c.page(w, r, http.StatusOK, "categories", &render.PageData{
		Title: "Categories",
		Data:  map[string]any{"Forest": forest},
	})
}

// Show renders one category with its direct children.
func (c *Categories) Show(w http.ResponseWriter, r *http.Request) {
	node, err := c.service.FindNode(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		c.fail(w, r, err)
		return
	}

	c.page(w, r, http.StatusOK, "category", &render.PageData{
		Title: node.Category.Name,
		Data:  map[string]any{"Node": node},
	})
}

// AddForm renders the empty category form.
func (c *Categories) AddForm(w http.ResponseWriter, r *http.Request) {
	c.form(w, r, http.StatusOK, "Add Category", "/categories/add", "", categoryForm{}, "")
}

// Add creates a category from the submitted form.
func (c *Categories) Add(w http.ResponseWriter, r *http.Request) {
	form := formFromRequest(r)
	created, err := c.service.Add(r.Context(), category.AddParams{
		Name:   form.Name,
		Slug:   form.Slug,
		Parent: &form.Parent,
	})
	if err != nil {
		c.formError(w, r, "Add Category", "/categories/add", "", form, err)
		return
	}

	c.flash(w, r, session.FlashSuccess, "Category "+created.Name+" was added")
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

// EditForm renders the form prefilled with the stored category.
func (c *Categories) EditForm(w http.ResponseWriter, r *http.Request) {
	existing, err := c.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		c.fail(w, r, err)
		return
	}

	form := categoryForm{Name: existing.Name, Slug: existing.Slug, Parent: existing.ParentSlug()}
	c.form(w, r, http.StatusOK, "Edit "+existing.Name, editAction(existing.Slug), existing.Slug, form, "")
}

// Edit replaces name, slug and parent of a category. A slug change moves
// the children along with it.
func (c *Categories) Edit(w http.ResponseWriter, r *http.Request) {
	existing, err := c.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		c.fail(w, r, err)
		return
	}

	form := formFromRequest(r)
	updated, err := c.service.Edit(r.Context(), existing.Slug, category.EditParams{
		Name:   form.Name,
		Slug:   form.Slug,
		Parent: &form.Parent,
	})
	if err != nil {
		c.formError(w, r, "Edit "+existing.Name, editAction(existing.Slug), existing.Slug, form, err)
		return
	}

	c.flash(w, r, session.FlashSuccess, "Category "+updated.Name+" was updated")
	http.Redirect(w, r, "/categories/"+updated.Slug, http.StatusSeeOther)
}

// DeleteConfirm asks before deleting a category.
func (c *Categories) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	existing, err := c.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		c.redirectMissing(w, r, err)
		return
	}

	c.page(w, r, http.StatusOK, "category_delete", &render.PageData{
		Title: "Delete " + existing.Name,
		Data:  map[string]any{"Category": existing},
	})
}

// Delete removes a category. Its children become top-level categories.
func (c *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		c.redirectMissing(w, r, err)
		return
	}

	c.flash(w, r, session.FlashSuccess, "Category deleted")
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

// form renders the category form. exclude names the category being
// edited so it cannot be offered as its own parent.
func (c *Categories) form(w http.ResponseWriter, r *http.Request, status int, title, action, exclude string, form categoryForm, errMsg string) {
	forest, err := c.service.Forest(r.Context())
	if err != nil {
		c.unavailable(w, r, err)
		return
	}

	c.page(w, r, status, "category_form", &render.PageData{
		Title: title,
		Data: map[string]any{
			"Action":  action,
			"Name":    form.Name,
			"Slug":    form.Slug,
			"Parent":  form.Parent,
			"Parents": parentOptions(forest, exclude),
			"Error":   errMsg,
		},
	})
}

// formError re-renders the submitted form with the validation message,
// or the 503 page when the service could not reach storage.
func (c *Categories) formError(w http.ResponseWriter, r *http.Request, title, action, exclude string, form categoryForm, err error) {
	msg := categoryMessage(err)
	if msg == "" {
		c.unavailable(w, r, err)
		return
	}
	c.form(w, r, http.StatusUnprocessableEntity, title, action, exclude, form, msg)
}

// fail renders 404 for a missing category and 503 otherwise.
func (c *Categories) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, category.ErrCategoryNotFound) {
		c.errorPage(w, r, http.StatusNotFound, categoryMessage(err))
		return
	}
	c.unavailable(w, r, err)
}

// redirectMissing sends the visitor back to the category list with a
// warning when the category is gone.
func (c *Categories) redirectMissing(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.Is(err, category.ErrCategoryNotFound) {
		c.unavailable(w, r, err)
		return
	}
	c.flash(w, r, session.FlashWarning, categoryMessage(err))
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

func editAction(slug string) string {
	return "/categories/" + slug + "/edit"
}
