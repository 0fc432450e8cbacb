// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"wowblog/internal/upload"
)

// Uploads handles the generic file upload endpoint used by the admin UI.
type Uploads struct {
	store          *upload.Store
	maxUploadBytes int64
}

// NewUploads creates the upload handler.
func NewUploads(s *upload.Store, maxUploadBytes int64) *Uploads {
	return &Uploads{store: s, maxUploadBytes: maxUploadBytes}
}

// Upload handles POST /api/upload (multipart: type, file).
func (h *Uploads) Upload(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r, h.maxUploadBytes); err != nil {
		writeFormError(w, err, h.maxUploadBytes)
		return
	}

	fh := formFile(r, "file")
	if fh == nil {
		writeError(w, "No file provided.", http.StatusBadRequest)
		return
	}
	if fh.Size > h.maxUploadBytes {
		writeFormError(w, errTooLarge, h.maxUploadBytes)
		return
	}

	data, err := readFile(fh)
	if err != nil {
		writeServerError(w, r, err, "read upload")
		return
	}

	typeHint, sent := formValue(r, "type")
	if !sent {
		typeHint = upload.BucketMisc
	}

	u, err := h.store.Save(r.Context(), typeHint, fh.Filename, data)
	if errors.Is(err, upload.ErrEmptyFile) {
		writeError(w, "Empty file", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeServerError(w, r, err, "save upload")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// saveFormFile stores the first non-empty file part among names in the
// given bucket. It returns nil when no file was sent, and false after
// writing an error response.
func saveFormFile(w http.ResponseWriter, r *http.Request, s *upload.Store, bucket string, names ...string) (*string, bool) {
	fh := formFile(r, names...)
	if fh == nil {
		return nil, true
	}

	data, err := readFile(fh)
	if err != nil {
		writeServerError(w, r, err, "read form file")
		return nil, false
	}

	u, err := s.Save(r.Context(), bucket, fh.Filename, data)
	if errors.Is(err, upload.ErrEmptyFile) {
		writeError(w, "Empty file", http.StatusBadRequest)
		return nil, false
	}
	if err != nil {
		writeServerError(w, r, err, "save form file")
		return nil, false
	}
	return &u.URL, true
}

// discardUpload removes a file stored earlier in a request that failed.
func discardUpload(ctx context.Context, s *upload.Store, url *string) {
	if url == nil {
		return
	}
	// The request context may already be cancelled.
	if err := s.Remove(context.WithoutCancel(ctx), *url); err != nil {
		slog.Warn("discard upload failed", "url", *url, "error", err)
	}
}
