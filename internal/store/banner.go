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

// BannerStore manages the singleton banner row.
type BannerStore struct {
	db *sql.DB
}

// NewBannerStore returns a new BannerStore.
func NewBannerStore(db *sql.DB) *BannerStore {
	return &BannerStore{db: db}
}

const bannerColumns = `id, image1_url, image2_url, heading, content,
	btn1_text, btn1_url, btn2_text, btn2_url, created_at, updated_at`

func scanBanner(scanner interface{ Scan(...any) error }) (*models.Banner, error) {
	var b models.Banner
	err := scanner.Scan(
		&b.ID, &b.Image1URL, &b.Image2URL, &b.Heading, &b.Content,
		&b.Btn1Text, &b.Btn1URL, &b.Btn2Text, &b.Btn2URL,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Get returns the banner, or nil if it has never been configured.
func (s *BannerStore) Get(ctx context.Context) (*models.Banner, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bannerColumns+` FROM banners WHERE id = $1`, models.BannerID)
	b, err := scanBanner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get banner: %w", err)
	}
	return b, nil
}

// ListAll returns the banner as a list of zero or one element.
func (s *BannerStore) ListAll(ctx context.Context) ([]models.Banner, error) {
	b, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return []models.Banner{}, nil
	}
	return []models.Banner{*b}, nil
}

// Upsert creates the banner if needed and writes the fields present in
// patch. A nil value clears its column.
func (s *BannerStore) Upsert(ctx context.Context, patch models.BannerPatch) (*models.Banner, error) {
	cols := []string{"id"}
	placeholders := []string{"$1"}
	sets := []string{"updated_at = NOW()"}
	args := []any{models.BannerID}

	// Iterate the canonical list so the statement text is stable.
	for _, field := range models.BannerFields {
		if !patch.Has(field) {
			continue
		}
		args = append(args, patch[field])
		cols = append(cols, field)
		placeholders = append(placeholders, "$"+strconv.Itoa(len(args)))
		sets = append(sets, field+" = EXCLUDED."+field)
	}

	q := `INSERT INTO banners (` + strings.Join(cols, ", ") + `)
		VALUES (` + strings.Join(placeholders, ", ") + `)
		ON CONFLICT (id) DO UPDATE SET ` + strings.Join(sets, ", ") + `
		RETURNING ` + bannerColumns

	b, err := scanBanner(s.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return nil, fmt.Errorf("upsert banner: %w", err)
	}
	return b, nil
}

// Delete removes the banner. Deleting a missing banner is not an error.
func (s *BannerStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM banners WHERE id = $1`, models.BannerID); err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	return nil
}
