// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Integration tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"wowblog/internal/database"
	"wowblog/internal/store"
	"wowblog/internal/upload"
)

const testMaxUpload = 1 << 20

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "wowblog")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "wowblog")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	UploadDir  string
	Uploads    *upload.Store
	Categories *Categories
	Posts      *Posts
	Banner     *Banner
	Router     http.Handler
}

// newTestEnv creates a complete test environment backed by PostgreSQL and
// a temporary upload directory. The entity cache is disabled.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	dir := t.TempDir()
	uploads := upload.New(dir, nil)

	env := &testEnv{
		DB:         db,
		UploadDir:  dir,
		Uploads:    uploads,
		Categories: NewCategories(store.NewCategoryStore(db), uploads, nil, testMaxUpload),
		Posts:      NewPosts(store.NewPostStore(db), uploads, nil, testMaxUpload),
		Banner:     NewBanner(store.NewBannerStore(db), nil),
	}
	env.Router = newTestMux(env.Categories, env.Posts, env.Banner, NewUploads(uploads, testMaxUpload))
	return env
}

// newTestMux mounts the handler groups the same way the router does.
func newTestMux(c *Categories, p *Posts, b *Banner, u *Uploads) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", c.List)
			r.Post("/", c.Create)
			r.Get("/{id}", c.Get)
			r.Put("/{id}", c.Update)
			r.Delete("/{id}", c.Delete)
		})
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", p.List)
			r.Post("/", p.Create)
			r.Get("/{id}", p.Get)
			r.Put("/{id}", p.Update)
			r.Delete("/{id}", p.Delete)
		})
		r.Route("/banner", func(r chi.Router) {
			r.Get("/", b.Get)
			r.Get("/all", b.List)
			r.Put("/", b.Upsert)
			r.Delete("/", b.Delete)
		})
		r.Post("/upload", u.Upload)
	})
	return r
}

// newUnitMux builds handlers without storage. Only paths that fail before
// reaching a store may be exercised.
func newUnitMux(t *testing.T) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	uploads := upload.New(dir, nil)
	return newTestMux(
		NewCategories(nil, uploads, nil, testMaxUpload),
		NewPosts(nil, uploads, nil, testMaxUpload),
		NewBanner(nil, nil),
		NewUploads(uploads, testMaxUpload),
	), dir
}

// formFileField is a file part for multipartRequest.
type formFileField struct {
	field    string
	filename string
	data     []byte
}

// multipartRequest builds a multipart/form-data request.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFileField) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(f.data)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// serve runs req through h and returns the recorder.
func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals the response body into v.
func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
}

// errorOf returns the "error" field of a JSON error response.
func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rr, &body)
	return body["error"]
}

// uniqueName returns a human name that slugifies to something unused.
func uniqueName(prefix string) string {
	return prefix + " " + uuid.NewString()[:8]
}

// countFiles returns the number of regular files under dir/bucket.
func countFiles(t *testing.T, dir, bucket string) int {
	t.Helper()
	entries, err := os.ReadDir(dir + "/" + bucket)
	if os.IsNotExist(err) {
		return 0
	}
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	return len(entries)
}
