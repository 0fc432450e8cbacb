// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
)

// multipartMemory is how much of a multipart body is kept in memory
// before parts spill to temporary files.
const multipartMemory = 8 << 20

// formOverhead is the allowance for non-file fields on top of the upload limit.
const formOverhead = 1 << 20

var (
	errTooLarge = errors.New("request body too large")
	errBadForm  = errors.New("malformed form body")
)

// parseForm parses a multipart or URL-encoded body, capping its size at
// maxBytes plus room for the text fields.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+formOverhead)

	var err error
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errTooLarge
	}
	return fmt.Errorf("%w: %v", errBadForm, err)
}

// writeFormError answers a parseForm failure.
func writeFormError(w http.ResponseWriter, err error, maxBytes int64) {
	if errors.Is(err, errTooLarge) {
		writeError(w, fmt.Sprintf("File too large. Maximum size is %d MB.", maxBytes>>20), http.StatusRequestEntityTooLarge)
		return
	}
	writeError(w, "Malformed form body.", http.StatusBadRequest)
}

// formValue returns the named field and whether it was sent at all.
func formValue(r *http.Request, key string) (string, bool) {
	vals, ok := r.PostForm[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// optionalString returns a pointer to the field value, or nil if absent.
func optionalString(r *http.Request, key string) *string {
	v, ok := formValue(r, key)
	if !ok {
		return nil
	}
	return &v
}

// optionalInt parses an integer field. Absent and empty fields yield nil.
func optionalInt(r *http.Request, key string) (*int64, error) {
	v, ok := formValue(r, key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	n, ok := parseInt64(v)
	if !ok {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

// parseInt64 parses a decimal integer, ignoring surrounding whitespace.
func parseInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}

// formFile returns the first file part found under any of the given names.
// Browsers send an empty part when no file is chosen; those are skipped.
func formFile(r *http.Request, names ...string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	for _, name := range names {
		for _, fh := range r.MultipartForm.File[name] {
			if fh.Filename == "" && fh.Size == 0 {
				continue
			}
			return fh
		}
	}
	return nil
}

// readFile reads a multipart file part fully into memory.
func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open form file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read form file: %w", err)
	}
	return data, nil
}
