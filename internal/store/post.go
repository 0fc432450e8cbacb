// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"wowblog/internal/models"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns lists the columns selected in post queries.
const postColumns = `id, title, slug, category_id, cover_url, status,
	excerpt, content, read_time, views, created_at, updated_at`

// scanPost scans a post row from the result set.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.CategoryID, &p.CoverURL, &p.Status,
		&p.Excerpt, &p.Content, &p.ReadTime, &p.Views, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns posts matching the filter, newest first. Query matches
// titles containing it, ignoring case.
func (s *PostStore) List(ctx context.Context, f models.PostFilter) ([]models.Post, error) {
	var (
		where []string
		args  []any
	)
	if f.Query != "" {
		args = append(args, "%"+escapeLike(f.Query)+"%")
		where = append(where, "title ILIKE $"+strconv.Itoa(len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, "category_id = $"+strconv.Itoa(len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}

	q := `SELECT ` + postColumns + ` FROM posts`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	items := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a single post by its ID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// Create inserts a new post. An empty status defaults to active; ReadTime
// is stored as given.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	status := p.Status
	if status == "" {
		status = models.PostStatusActive
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, category_id, cover_url, status,
			excerpt, content, read_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.CategoryID, p.CoverURL, string(status),
		p.Excerpt, p.Content, p.ReadTime,
	)
	result, err := scanPost(row)
	if err != nil {
		return nil, translatePostError("create post", err)
	}
	return result, nil
}

// Update applies the non-nil fields of patch. DetachCategory clears the
// category regardless of CategoryID. Returns nil if the post does not exist.
func (s *PostStore) Update(ctx context.Context, id int64, p models.PostPatch) (*models.Post, error) {
	var status *string
	if p.Status != nil {
		v := string(*p.Status)
		status = &v
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			title = COALESCE($1, title),
			slug = COALESCE($2, slug),
			category_id = CASE WHEN $3 THEN NULL ELSE COALESCE($4, category_id) END,
			cover_url = COALESCE($5, cover_url),
			status = COALESCE($6, status),
			excerpt = COALESCE($7, excerpt),
			content = COALESCE($8, content),
			read_time = COALESCE($9, read_time),
			updated_at = NOW()
		WHERE id = $10
		RETURNING `+postColumns,
		p.Title, p.Slug, p.DetachCategory, p.CategoryID, p.CoverURL, status,
		p.Excerpt, p.Content, p.ReadTime, id,
	)
	result, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translatePostError("update post", err)
	}
	return result, nil
}

// Delete removes a post by ID. Returns ErrNotFound if nothing was deleted.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of posts.
func (s *PostStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

func translatePostError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return ErrSlugTaken
	case isForeignKeyViolation(err):
		return ErrInvalidCategory
	}
	return fmt.Errorf("%s: %w", op, err)
}
