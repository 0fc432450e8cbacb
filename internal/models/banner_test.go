// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func decodeRaw(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("unmarshal %s: %v", body, err)
	}
	return raw
}

func TestNormalizeBannerInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]string // field -> value; "<nil>" means explicit null
	}{
		{
			name: "canonical keys pass through",
			body: `{"heading":"Hi","btn1_url":"/a","btn2_url":"/b"}`,
			want: map[string]string{"heading": "Hi", "btn1_url": "/a", "btn2_url": "/b"},
		},
		{
			name: "link aliases",
			body: `{"btn1_link":"/one","btn2_link":"/two"}`,
			want: map[string]string{"btn1_url": "/one", "btn2_url": "/two"},
		},
		{
			name: "go shorthand",
			body: `{"go1":"http://x","go2":"http://y"}`,
			want: map[string]string{"btn1_url": "http://x", "btn2_url": "http://y"},
		},
		{
			name: "canonical wins over go1",
			body: `{"go1":"http://alias","btn1_url":"http://canonical"}`,
			want: map[string]string{"btn1_url": "http://canonical"},
		},
		{
			name: "canonical wins over link alias",
			body: `{"btn2_link":"/alias","btn2_url":"/canonical"}`,
			want: map[string]string{"btn2_url": "/canonical"},
		},
		{
			name: "link alias wins over go shorthand",
			body: `{"go1":"/go","btn1_link":"/link"}`,
			want: map[string]string{"btn1_url": "/link"},
		},
		{
			name: "explicit null clears",
			body: `{"image2_url":null}`,
			want: map[string]string{"image2_url": "<nil>"},
		},
		{
			name: "unknown keys ignored",
			body: `{"id":7,"created_at":"2020-01-01","heading":"Hi"}`,
			want: map[string]string{"heading": "Hi"},
		},
		{
			name: "empty object",
			body: `{}`,
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, err := NormalizeBannerInput(decodeRaw(t, tt.body))
			if err != nil {
				t.Fatalf("NormalizeBannerInput: %v", err)
			}
			if len(patch) != len(tt.want) {
				t.Errorf("patch has %d fields, want %d: %v", len(patch), len(tt.want), patch)
			}
			for field, want := range tt.want {
				if !patch.Has(field) {
					t.Errorf("missing field %q", field)
					continue
				}
				got := patch[field]
				if want == "<nil>" {
					if got != nil {
						t.Errorf("%s: got %q, want nil", field, *got)
					}
					continue
				}
				if got == nil || *got != want {
					t.Errorf("%s: got %v, want %q", field, got, want)
				}
			}
		})
	}
}

func TestNormalizeBannerInput_RejectsNonString(t *testing.T) {
	for _, body := range []string{
		`{"heading":42}`,
		`{"go1":true}`,
		`{"content":{"nested":"x"}}`,
	} {
		t.Run(body, func(t *testing.T) {
			_, err := NormalizeBannerInput(decodeRaw(t, body))
			if !errors.Is(err, ErrInvalidBannerField) {
				t.Errorf("got %v, want ErrInvalidBannerField", err)
			}
		})
	}
}

func TestNormalizeBannerInput_DoesNotMutateInput(t *testing.T) {
	raw := decodeRaw(t, `{"go1":"http://x"}`)
	if _, err := NormalizeBannerInput(raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["btn1_url"]; ok {
		t.Error("input map was mutated")
	}
}
