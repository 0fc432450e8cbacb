package handlers

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }

func TestValidatePostInput(t *testing.T) {
	tests := []struct {
		name    string
		in      postInput
		wantMsg string
	}{
		{"valid", postInput{Title: "Hello", Content: "Body", Category: int64Ptr(1)}, ""},
		{"empty title", postInput{Title: "", Content: "Body", Category: int64Ptr(1)}, "Title cannot be empty"},
		{"whitespace title", postInput{Title: "   ", Content: "Body", Category: int64Ptr(1)}, "Title cannot be empty"},
		{"blank content", postInput{Title: "T", Content: " \n\t", Category: int64Ptr(1)}, "Content cannot be empty"},
		{"missing category", postInput{Title: "T", Content: "Body"}, "Category must be selected"},
		{"title too long", postInput{Title: strings.Repeat("a", maxTitleLen+1), Content: "Body", Category: int64Ptr(1)}, "Title is too long (max 300 characters)"},
		{"content too long", postInput{Title: "T", Content: strings.Repeat("a", maxContentLen+1), Category: int64Ptr(1)}, "Content is too long (max 100000 characters)"},
		{"excerpt too long", postInput{Title: "T", Content: "B", Category: int64Ptr(1), Excerpt: strPtr(strings.Repeat("a", maxExcerptLen+1))}, "Excerpt is too long (max 1000 characters)"},
		{"status too long", postInput{Title: "T", Content: "B", Category: int64Ptr(1), Status: strings.Repeat("a", maxStatusLen+1)}, "Status is too long (max 50 characters)"},
		{"title checked first", postInput{}, "Title cannot be empty"},
		{"zero read time", postInput{Title: "T", Content: "B", Category: int64Ptr(1), ReadTime: int64Ptr(0)}, ""},
		{"negative read time", postInput{Title: "T", Content: "B", Category: int64Ptr(1), ReadTime: int64Ptr(-5)}, "read_time must be at least 0"},
		{"read time too large", postInput{Title: "T", Content: "B", Category: int64Ptr(1), ReadTime: int64Ptr(3_000_000_000)}, "read_time must be at most 1440"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validationMessage(validate.Struct(tt.in))
			if got != tt.wantMsg {
				t.Errorf("got %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestValidatePostUpdateInput(t *testing.T) {
	tests := []struct {
		name    string
		in      postUpdateInput
		wantMsg string
	}{
		{"nothing sent", postUpdateInput{}, ""},
		{"new title", postUpdateInput{Title: strPtr("New")}, ""},
		{"blank title", postUpdateInput{Title: strPtr("  ")}, "Title cannot be empty"},
		{"empty content", postUpdateInput{Content: strPtr("")}, "Content cannot be empty"},
		{"empty excerpt allowed", postUpdateInput{Excerpt: strPtr("")}, ""},
		{"read time at limit", postUpdateInput{ReadTime: int64Ptr(maxReadTime)}, ""},
		{"read time over limit", postUpdateInput{ReadTime: int64Ptr(maxReadTime + 1)}, "read_time must be at most 1440"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validationMessage(validate.Struct(tt.in))
			if got != tt.wantMsg {
				t.Errorf("got %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestValidateCategoryInput(t *testing.T) {
	tests := []struct {
		name    string
		in      categoryInput
		wantMsg string
	}{
		{"valid", categoryInput{Name: "Tech"}, ""},
		{"with description", categoryInput{Name: "Tech", Description: strPtr("About tech")}, ""},
		{"blank name", categoryInput{Name: " "}, "Name cannot be empty"},
		{"name too long", categoryInput{Name: strings.Repeat("a", maxNameLen+1)}, "Name is too long (max 200 characters)"},
		{"description too long", categoryInput{Name: "x", Description: strPtr(strings.Repeat("a", maxDescriptionLen+1))}, "Description is too long (max 1000 characters)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validationMessage(validate.Struct(tt.in))
			if got != tt.wantMsg {
				t.Errorf("got %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestValidateBannerValue(t *testing.T) {
	if msg := validateBannerValue("heading", nil); msg != "" {
		t.Errorf("nil value: got %q", msg)
	}
	if msg := validateBannerValue("heading", strPtr("Hello")); msg != "" {
		t.Errorf("short value: got %q", msg)
	}
	if msg := validateBannerValue("heading", strPtr(strings.Repeat("a", maxBannerFieldLen+1))); msg == "" {
		t.Error("expected error for oversized value")
	}
}

func TestValidationMessageNil(t *testing.T) {
	if got := validationMessage(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}
