// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
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

// coverFields are the multipart names accepted for a post cover image.
// The admin UI posts "thumbnail".
var coverFields = []string{"cover", "thumbnail"}

// Posts groups the post endpoints.
type Posts struct {
	store          *store.PostStore
	uploads        *upload.Store
	cache          *cache.EntityCache
	maxUploadBytes int64
}

// NewPosts creates the post handler group. ec may be nil.
func NewPosts(ps *store.PostStore, uploads *upload.Store, ec *cache.EntityCache, maxUploadBytes int64) *Posts {
	return &Posts{store: ps, uploads: uploads, cache: ec, maxUploadBytes: maxUploadBytes}
}

// List handles GET /api/posts?q=&category_id=&status=.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.PostFilter{Query: strings.TrimSpace(q.Get("q"))}

	if v := strings.TrimSpace(q.Get("category_id")); v != "" {
		id, ok := parseInt64(v)
		if !ok {
			writeError(w, "category_id must be an integer", http.StatusBadRequest)
			return
		}
		f.CategoryID = &id
	}
	if q.Has("status") {
		s := models.PostStatus(q.Get("status"))
		f.Status = &s
	}

	items, err := h.store.List(r.Context(), f)
	if err != nil {
		writeServerError(w, r, err, "list posts")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/posts/{id}.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	var p models.Post
	if h.cache.Get(r.Context(), cache.PostKey(id), &p) {
		writeJSON(w, http.StatusOK, &p)
		return
	}

	fence := h.cache.Fence(r.Context(), cache.PostKey(id))
	found, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		writeServerError(w, r, err, "find post")
		return
	}
	if found == nil {
		writeError(w, "Post not found", http.StatusNotFound)
		return
	}
	h.cache.Set(r.Context(), cache.PostKey(id), fence, found)
	writeJSON(w, http.StatusOK, found)
}

// Create handles POST /api/posts.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, h.maxUploadBytes); err != nil {
		writeFormError(w, err, h.maxUploadBytes)
		return
	}

	categoryID, err := optionalInt(r, "category_id")
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	readTime, err := optionalInt(r, "read_time")
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	title, _ := formValue(r, "title")
	content, _ := formValue(r, "content")
	status, _ := formValue(r, "status")
	in := postInput{
		Title:    title,
		Content:  content,
		Category: categoryID,
		Status:   status,
		Excerpt:  optionalString(r, "excerpt"),
		ReadTime: readTime,
	}
	if msg := validationMessage(validate.Struct(in)); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	coverURL, ok := saveFormFile(w, r, h.uploads, upload.BucketPosts, coverFields...)
	if !ok {
		return
	}

	post := &models.Post{
		Title:      in.Title,
		Slug:       slug.Generate(in.Title),
		CategoryID: in.Category,
		CoverURL:   coverURL,
		Status:     models.PostStatus(in.Status),
		Excerpt:    in.Excerpt,
		Content:    &in.Content,
		ReadTime:   models.DefaultReadTime,
	}
	if in.ReadTime != nil {
		post.ReadTime = int(*in.ReadTime)
	}

	created, err := h.store.Create(r.Context(), post)
	if err != nil {
		discardUpload(r.Context(), h.uploads, coverURL)
		switch {
		case errors.Is(err, store.ErrSlugTaken):
			writeError(w, "Post with similar slug already exists", http.StatusConflict)
		case errors.Is(err, store.ErrInvalidCategory):
			writeError(w, "Invalid category_id", http.StatusBadRequest)
		default:
			writeServerError(w, r, err, "create post")
		}
		return
	}

	slog.Info("post created", "id", created.ID, "slug", created.Slug)
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/posts/{id}. Only fields present in the form
// change. A category_id of 0 detaches the post from its category.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, "Invalid post id", http.StatusBadRequest)
		return
	}
	if err := parseForm(w, r, h.maxUploadBytes); err != nil {
		writeFormError(w, err, h.maxUploadBytes)
		return
	}

	categoryID, err := optionalInt(r, "category_id")
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	readTime, err := optionalInt(r, "read_time")
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	in := postUpdateInput{
		Content:  optionalString(r, "content"),
		Status:   optionalString(r, "status"),
		Excerpt:  optionalString(r, "excerpt"),
		ReadTime: readTime,
	}
	// An empty title means "unchanged"; a whitespace-only one is rejected.
	if title, sent := formValue(r, "title"); sent && title != "" {
		in.Title = &title
	}
	if msg := validationMessage(validate.Struct(in)); msg != "" {
		writeError(w, msg, http.StatusBadRequest)
		return
	}

	patch := models.PostPatch{
		Title:   in.Title,
		Excerpt: in.Excerpt,
		Content: in.Content,
	}
	if in.Title != nil {
		s := slug.Generate(*in.Title)
		patch.Slug = &s
	}
	if in.Status != nil {
		s := models.PostStatus(*in.Status)
		patch.Status = &s
	}
	if categoryID != nil {
		if *categoryID == 0 {
			patch.DetachCategory = true
		} else {
			patch.CategoryID = categoryID
		}
	}
	if in.ReadTime != nil {
		n := int(*in.ReadTime)
		patch.ReadTime = &n
	}

	coverURL, ok := saveFormFile(w, r, h.uploads, upload.BucketPosts, coverFields...)
	if !ok {
		return
	}
	patch.CoverURL = coverURL

	updated, err := h.store.Update(r.Context(), id, patch)
	if err != nil {
		discardUpload(r.Context(), h.uploads, coverURL)
		switch {
		case errors.Is(err, store.ErrSlugTaken):
			writeError(w, "Another post already uses this slug", http.StatusConflict)
		case errors.Is(err, store.ErrInvalidCategory):
			writeError(w, "Invalid category_id", http.StatusBadRequest)
		default:
			writeServerError(w, r, err, "update post")
		}
		return
	}
	if updated == nil {
		discardUpload(r.Context(), h.uploads, coverURL)
		writeError(w, "Post not found", http.StatusNotFound)
		return
	}

	h.cache.Invalidate(r.Context(), cache.PostKey(id))
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/posts/{id}.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		writeError(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	err := h.store.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, "Post not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeServerError(w, r, err, "delete post")
		return
	}

	h.cache.Invalidate(r.Context(), cache.PostKey(id))
	slog.Info("post deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
