package handlers

import (
	"context"
	"net/http"
	"time"

	"wowblog/internal/store"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports service liveness and basic content counts.
type Health struct {
	db         Pinger
	categories *store.CategoryStore
	posts      *store.PostStore
}

// NewHealth creates the health handler.
func NewHealth(db Pinger, cs *store.CategoryStore, ps *store.PostStore) *Health {
	return &Health{db: db, categories: cs, posts: ps}
}

// Check handles GET /health/ready.
func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	resp := map[string]any{"status": "ok"}
	if n, err := h.categories.Count(ctx); err == nil {
		resp["categories"] = n
	}
	if n, err := h.posts.Count(ctx); err == nil {
		resp["posts"] = n
	}
	writeJSON(w, http.StatusOK, resp)
}
