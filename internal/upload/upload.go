// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package upload stores user files on local disk under a fixed set of
// bucket directories and exposes them under the /uploads URL prefix.
// Stored files can optionally be mirrored to S3-compatible storage.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"wowblog/internal/imaging"
	"wowblog/internal/models"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/uploads/"

// Bucket names.
const (
	BucketBanner     = "banner"
	BucketCategories = "categories"
	BucketPosts      = "posts"
	BucketProfile    = "profile"
	BucketMisc       = "misc"
)

// Buckets lists every bucket directory.
var Buckets = []string{BucketBanner, BucketCategories, BucketPosts, BucketProfile, BucketMisc}

// bucketAliases maps the type hints clients send to bucket names.
var bucketAliases = map[string]string{
	"banner":     BucketBanner,
	"banners":    BucketBanner,
	"category":   BucketCategories,
	"categories": BucketCategories,
	"post":       BucketPosts,
	"posts":      BucketPosts,
	"profile":    BucketProfile,
	"avatar":     BucketProfile,
	"misc":       BucketMisc,
}

// timestampLayout prefixes every stored filename (UTC).
const timestampLayout = "20060102150405"

// ErrEmptyFile is returned when an upload has no content.
var ErrEmptyFile = errors.New("empty file")

// Mirror replicates stored files to remote object storage.
type Mirror interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
}

// Store writes uploads below a root directory.
type Store struct {
	root   string
	mirror Mirror
	now    func() time.Time
}

// New returns a Store rooted at dir. mirror may be nil.
func New(dir string, mirror Mirror) *Store {
	return &Store{root: dir, mirror: mirror, now: time.Now}
}

// Root returns the directory files are written to.
func (s *Store) Root() string {
	return s.root
}

// EnsureBuckets creates every bucket directory.
func (s *Store) EnsureBuckets() error {
	for _, b := range Buckets {
		if err := os.MkdirAll(filepath.Join(s.root, b), 0o755); err != nil {
			return fmt.Errorf("create bucket %s: %w", b, err)
		}
	}
	return nil
}

// ResolveBucket maps a client type hint to a bucket. Unknown hints land
// in misc.
func ResolveBucket(typeHint string) string {
	if b, ok := bucketAliases[strings.ToLower(strings.TrimSpace(typeHint))]; ok {
		return b
	}
	return BucketMisc
}

// SanitizeFilename keeps letters, digits, dots, underscores and dashes,
// replaces anything else with an underscore and turns spaces into
// underscores. An empty result becomes "file".
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r):
			b.WriteRune(r)
		case r == '.', r == '_', r == '-', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	safe := strings.TrimSpace(b.String())
	safe = strings.ReplaceAll(safe, " ", "_")
	if safe == "" {
		return "file"
	}
	return safe
}

// Save writes data to the bucket chosen by typeHint under a timestamped,
// sanitised name and returns its public description.
func (s *Store) Save(ctx context.Context, typeHint, filename string, data []byte) (*models.Upload, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	bucket := ResolveBucket(typeHint)
	name := s.now().UTC().Format(timestampLayout) + "_" + SanitizeFilename(filename)

	dir := filepath.Join(s.root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bucket dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	info := imaging.Probe(data, filename)
	u := &models.Upload{
		URL:          URLPrefix + bucket + "/" + name,
		Bucket:       bucket,
		Filename:     name,
		OriginalName: filename,
		ContentType:  info.ContentType,
		SizeBytes:    int64(len(data)),
		Width:        info.Width,
		Height:       info.Height,
	}

	if s.mirror != nil {
		key := objectKey(bucket, name)
		if err := s.mirror.Upload(ctx, key, u.ContentType, bytes.NewReader(data), u.SizeBytes); err != nil {
			slog.Warn("upload mirror failed", "error", err, "key", key)
		} else {
			u.MirrorURL = s.mirror.FileURL(key)
		}
	}

	slog.Info("file uploaded", "url", u.URL, "size", u.HumanSize(), "content_type", u.ContentType)
	return u, nil
}

// Remove deletes a file previously returned by Save. URLs that do not
// point into a known bucket are ignored, as are files already gone.
func (s *Store) Remove(ctx context.Context, publicURL string) error {
	bucket, name, ok := parseURL(publicURL)
	if !ok {
		return nil
	}

	err := os.Remove(filepath.Join(s.root, bucket, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}

	if s.mirror != nil {
		key := objectKey(bucket, name)
		if err := s.mirror.Delete(ctx, key); err != nil {
			slog.Warn("upload mirror delete failed", "error", err, "key", key)
		}
	}
	return nil
}

// objectKey is the mirror key for a stored file.
func objectKey(bucket, name string) string {
	return "uploads/" + bucket + "/" + name
}

// parseURL splits "/uploads/{bucket}/{name}" and rejects anything that
// could escape the bucket directory.
func parseURL(publicURL string) (bucket, name string, ok bool) {
	rest, found := strings.CutPrefix(publicURL, URLPrefix)
	if !found {
		return "", "", false
	}
	bucket, name, found = strings.Cut(rest, "/")
	if !found || name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", "", false
	}
	if _, known := bucketAliases[bucket]; !known || ResolveBucket(bucket) != bucket {
		return "", "", false
	}
	return bucket, name, true
}
