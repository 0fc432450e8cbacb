// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"wowblog/internal/cache"
	"wowblog/internal/models"
	"wowblog/internal/slug"
	"wowblog/internal/store"
	"wowblog/internal/upload"
)

// Categories groups the category endpoints.
type Categories struct {
	store          *store.CategoryStore
	uploads        *upload.Store
	cache          *cache.EntityCache
	maxUploadBytes int64
}

// NewCategories creates the category handler group. ec may be nil.
func NewCategories(cs *store.CategoryStore, uploads *upload.Store, ec *cache.EntityCache, maxUploadBytes int64) *Categories {
	return &Categories{store: cs, uploads: uploads, cache: ec, maxUploadBytes: maxUploadBytes}
}

// List handles GET /api/categories?q=.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")))
	if err != nil {
		writeServerError(w, r, err, "list categories")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/categories/{id}.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, "Invalid category id", http.StatusBadRequest)
		return
	}

	var c models.Category
	if h.cache.Get(r.Context(), cache.CategoryKey(id), &c) {
		writeJSON(w, http.StatusOK, &c)
		return
	}

	fence := h.cache.Fence(r.Context(), cache.CategoryKey(id))
	found, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		writeServerError(w, r, err, "find category")
		return
	}
	if found == nil {
		writeError(w, "Category not found", http.StatusNotFound)
		return
	}
	h.cache.Set(r.Context(), cache.CategoryKey(id), fence, found)
	writeJSON(w, http.StatusOK, found)
}

// Create handles POST /api/categories (multipart: name, description?, thumbnail?).
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, h.maxUploadBytes); err != nil {
		writeFormError(w, err, h.maxUploadBytes)
		return
	}

	name, _ := formValue(r, "name")
	in := categoryInput{
		Name:        name,
		Description: optionalString(r, "description"),
	}
	if msg := validationMessage(validate.Struct(in)); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	thumbURL, ok := h.saveThumbnail(w, r)
	if !ok {
		return
	}

	c, err := h.store.Create(r.Context(), &models.Category{
		Name:         in.Name,
		Slug:         slug.Generate(in.Name),
		Description:  in.Description,
		ThumbnailURL: thumbURL,
	})
	if err != nil {
		h.discard(r.Context(), thumbURL)
		if errors.Is(err, store.ErrSlugTaken) {
			writeError(w, "Category with similar slug already exists", http.StatusConflict)
			return
		}
		writeServerError(w, r, err, "create category")
		return
	}

	slog.Info("category created", "id", c.ID, "slug", c.Slug)
	writeJSON(w, http.StatusCreated, c)
}

// Update handles PUT /api/categories/{id}. Only fields present in the
// form change. A non-blank name also regenerates the slug.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, "Invalid category id", http.StatusBadRequest)
		return
	}
	if err := parseForm(w, r, h.maxUploadBytes); err != nil {
		writeFormError(w, err, h.maxUploadBytes)
		return
	}

	in := categoryUpdateInput{Description: optionalString(r, "description")}
	if name, sent := formValue(r, "name"); sent && strings.TrimSpace(name) != "" {
		in.Name = &name
	}
	if msg := validationMessage(validate.Struct(in)); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	patch := models.CategoryPatch{Name: in.Name, Description: in.Description}
	if in.Name != nil {
		s := slug.Generate(*in.Name)
		patch.Slug = &s
	}

	thumbURL, ok := h.saveThumbnail(w, r)
	if !ok {
		return
	}
	patch.ThumbnailURL = thumbURL

	c, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		h.discard(r.Context(), thumbURL)
		if errors.Is(err, store.ErrSlugTaken) {
			writeError(w, "Another category already uses this slug", http.StatusConflict)
			return
		}
		writeServerError(w, r, err, "update category")
		return
	}
	if c == nil {
		h.discard(r.Context(), thumbURL)
		writeError(w, "Category not found", http.StatusNotFound)
		return
	}

	h.cache.Invalidate(r.Context(), cache.CategoryKey(id))
	writeJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/categories/{id}. Categories that still have
// posts cannot be deleted.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, "Invalid category id", http.StatusBadRequest)
		return
	}

	err := h.store.Delete(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, "Category not found", http.StatusNotFound)
		return
	case errors.Is(err, store.ErrCategoryInUse):
		writeError(w, "Cannot delete category with existing posts", http.StatusConflict)
		return
	case err != nil:
		writeServerError(w, r, err, "delete category")
		return
	}

	h.cache.Invalidate(r.Context(), cache.CategoryKey(id))
	slog.Info("category deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// saveThumbnail stores the optional thumbnail part. It returns nil when no
// file was sent, and false after writing an error response.
func (h *Categories) saveThumbnail(w http.ResponseWriter, r *http.Request) (*string, bool) {
	return saveFormFile(w, r, h.uploads, upload.BucketCategories, "thumbnail")
}

func (h *Categories) discard(ctx context.Context, url *string) {
	discardUpload(ctx, h.uploads, url)
}
