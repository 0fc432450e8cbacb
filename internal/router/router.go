// Package router sets up all HTTP routes and middleware chains for the
// WowBlog API. JSON resources live under /api, uploaded files under
// /uploads.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"wowblog/internal/handlers"
	"wowblog/internal/middleware"
)

// Handlers bundles the handler groups the router dispatches to.
type Handlers struct {
	Health     *handlers.Health
	Categories *handlers.Categories
	Posts      *handlers.Posts
	Banner     *handlers.Banner
	Uploads    *handlers.Uploads
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. uploadDir is served read-only at /uploads.
func New(uploadDir string, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.NotFound(jsonStatus(http.StatusNotFound, "Not Found"))
	r.MethodNotAllowed(jsonStatus(http.StatusMethodNotAllowed, "Method Not Allowed"))

	// Liveness needs nothing; readiness checks the database.
	r.Get("/health", healthHandler)
	r.Get("/health/ready", h.Health.Check)

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Post("/", h.Categories.Create)
			r.Get("/{id}", h.Categories.Get)
			r.Put("/{id}", h.Categories.Update)
			r.Delete("/{id}", h.Categories.Delete)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", h.Posts.List)
			r.Post("/", h.Posts.Create)
			r.Get("/{id}", h.Posts.Get)
			r.Put("/{id}", h.Posts.Update)
			r.Delete("/{id}", h.Posts.Delete)
		})

		r.Route("/banner", func(r chi.Router) {
			r.Get("/", h.Banner.Get)
			r.Get("/all", h.Banner.List)
			r.Put("/", h.Banner.Upsert)
			r.Delete("/", h.Banner.Delete)
		})

		r.Post("/upload", h.Uploads.Upload)
	})

	// Uploaded files, without directory listings.
	fileServer := http.StripPrefix("/uploads/", http.FileServer(filesOnly{http.Dir(uploadDir)}))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// jsonStatus answers every request with a fixed JSON error.
func jsonStatus(status int, msg string) http.HandlerFunc {
	body := []byte(`{"error":"` + msg + `"}` + "\n")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)
	}
}

// filesOnly hides directories from http.FileServer so bucket contents
// cannot be listed.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
