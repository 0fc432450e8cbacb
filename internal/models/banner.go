// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// BannerID is the fixed primary key of the singleton banner row.
const BannerID = 1

// Banner is the promotional hero block shown on the blog's front page.
// Only one exists.
type Banner struct {
	ID        int       `json:"id"`
	Image1URL *string   `json:"image1_url"`
	Image2URL *string   `json:"image2_url"`
	Heading   *string   `json:"heading"`
	Content   *string   `json:"content"`
	Btn1Text  *string   `json:"btn1_text"`
	Btn1URL   *string   `json:"btn1_url"`
	Btn2Text  *string   `json:"btn2_text"`
	Btn2URL   *string   `json:"btn2_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BannerFields lists the writable banner columns, in table order.
var BannerFields = []string{
	"image1_url", "image2_url",
	"heading", "content",
	"btn1_text", "btn1_url",
	"btn2_text", "btn2_url",
}

// bannerAliases maps deprecated input keys to their canonical column.
// Order matters: earlier aliases win over later ones for the same column.
var bannerAliases = []struct {
	alias     string
	canonical string
}{
	{"btn1_link", "btn1_url"},
	{"btn2_link", "btn2_url"},
	{"go1", "btn1_url"},
	{"go2", "btn2_url"},
}

// ErrInvalidBannerField is returned when a banner field holds something
// other than a string or null.
var ErrInvalidBannerField = errors.New("invalid banner field")

// BannerPatch maps canonical column names to new values. A key that is
// present with a nil value clears the column; absent keys are untouched.
type BannerPatch map[string]*string

// Has reports whether the patch sets the given column.
func (p BannerPatch) Has(field string) bool {
	_, ok := p[field]
	return ok
}

// NormalizeBannerInput turns a raw JSON object into a BannerPatch.
// Legacy keys are folded into their canonical names unless the canonical
// key is also present. Unknown keys are ignored.
func NormalizeBannerInput(raw map[string]json.RawMessage) (BannerPatch, error) {
	in := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		in[k] = v
	}
	for _, a := range bannerAliases {
		v, ok := in[a.alias]
		if !ok {
			continue
		}
		if _, exists := in[a.canonical]; !exists {
			in[a.canonical] = v
		}
	}

	patch := make(BannerPatch)
	for _, field := range BannerFields {
		v, ok := in[field]
		if !ok {
			continue
		}
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, fmt.Errorf("%w: %s must be a string or null", ErrInvalidBannerField, field)
		}
		patch[field] = s
	}
	return patch, nil
}
