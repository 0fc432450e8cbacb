// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the WowBlog JSON API.
// Handlers are grouped by resource (categories, posts, banner, uploads)
// and receive their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServerError logs err and answers 500 without leaking the cause.
// The response carries a trace id (the request id when there is one) so a
// report can be matched to the log line.
func writeServerError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	traceID := chimw.GetReqID(r.Context())
	if traceID == "" {
		traceID = uuid.NewString()
	}
	slog.Error(msg, "error", err, "trace_id", traceID, "method", r.Method, "path", r.URL.Path)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":    "Internal Server Error",
		"trace_id": traceID,
	})
}

// parseID reads the {id} URL parameter as a positive integer.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
