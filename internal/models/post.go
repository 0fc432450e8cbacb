// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PostStatus is the visibility state of a post. The store accepts any
// value; the two constants are the ones the admin UI uses.
type PostStatus string

const (
	PostStatusActive   PostStatus = "active"
	PostStatusInactive PostStatus = "inactive"
)

// DefaultReadTime is the estimated reading time, in minutes, used when a
// post is created without one.
const DefaultReadTime = 5

// Post is a blog article belonging to a category.
type Post struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	CategoryID *int64     `json:"category_id"`
	CoverURL   *string    `json:"cover_url"`
	Status     PostStatus `json:"status"`
	Excerpt    *string    `json:"excerpt"`
	Content    *string    `json:"content"`
	ReadTime   int        `json:"read_time"`
	Views      int        `json:"views"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// PostPatch carries the fields of a partial post update. A nil field is
// left untouched. DetachCategory sets category_id to NULL and wins over
// CategoryID.
type PostPatch struct {
	Title          *string
	Slug           *string
	CategoryID     *int64
	DetachCategory bool
	CoverURL       *string
	Status         *PostStatus
	Excerpt        *string
	Content        *string
	ReadTime       *int
}

// PostFilter narrows a post listing. Zero values mean "no filter".
type PostFilter struct {
	Query      string
	CategoryID *int64
	Status     *PostStatus
}
