// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wowblog/internal/cache"
	"wowblog/internal/models"
	"wowblog/internal/store"
)

// maxBannerBody caps the JSON body of a banner update.
const maxBannerBody = 64 << 10

// Banner groups the singleton banner endpoints.
type Banner struct {
	store *store.BannerStore
	cache *cache.EntityCache
}

// NewBanner creates the banner handler group. ec may be nil.
func NewBanner(bs *store.BannerStore, ec *cache.EntityCache) *Banner {
	return &Banner{store: bs, cache: ec}
}

// Get handles GET /api/banner. Clients treat 404 as "not configured yet".
func (h *Banner) Get(w http.ResponseWriter, r *http.Request) {
	var b models.Banner
	if h.cache.Get(r.Context(), cache.BannerKey, &b) {
		writeJSON(w, http.StatusOK, &b)
		return
	}

	fence := h.cache.Fence(r.Context(), cache.BannerKey)
	found, err := h.store.Get(r.Context())
	if err != nil {
		writeServerError(w, r, err, "get banner")
		return
	}
	if found == nil {
		writeError(w, "Banner not configured", http.StatusNotFound)
		return
	}
	h.cache.Set(r.Context(), cache.BannerKey, fence, found)
	writeJSON(w, http.StatusOK, found)
}

// List handles GET /api/banner/all and returns [] or [banner].
func (h *Banner) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAll(r.Context())
	if err != nil {
		writeServerError(w, r, err, "list banner")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Upsert handles PUT /api/banner. The body is a JSON object; legacy
// button keys are accepted and only the keys sent are changed.
func (h *Banner) Upsert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBannerBody)

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, "Request body must be a JSON object", http.StatusBadRequest)
		return
	}
	if raw == nil {
		writeError(w, "Request body must be a JSON object", http.StatusBadRequest)
		return
	}

	patch, err := models.NormalizeBannerInput(raw)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, field := range models.BannerFields {
		if msg := validateBannerValue(field, patch[field]); msg != "" {
			writeError(w, msg, http.StatusBadRequest)
			return
		}
	}

	b, err := h.store.Upsert(r.Context(), patch)
	if err != nil {
		writeServerError(w, r, err, "upsert banner")
		return
	}

	h.cache.Invalidate(r.Context(), cache.BannerKey)
	writeJSON(w, http.StatusOK, b)
}

// Delete handles DELETE /api/banner. Deleting a missing banner succeeds.
func (h *Banner) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context()); err != nil {
		writeServerError(w, r, err, "delete banner")
		return
	}
	h.cache.Invalidate(r.Context(), cache.BannerKey)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
