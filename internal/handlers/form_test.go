package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseFormTooLarge(t *testing.T) {
	big := strings.Repeat("a", formOverhead+2048)
	req := multipartRequest(t, http.MethodPost, "/", nil, formFileField{"file", "big.bin", []byte(big)})
	rr := httptest.NewRecorder()

	err := parseForm(rr, req, 1024)
	if !errors.Is(err, errTooLarge) {
		t.Fatalf("got %v, want errTooLarge", err)
	}

	writeFormError(rr, err, 1024)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", rr.Code)
	}
}

func TestParseFormURLEncoded(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("title=Hello&excerpt="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if err := parseForm(httptest.NewRecorder(), req, 1024); err != nil {
		t.Fatalf("parseForm: %v", err)
	}
	if v, ok := formValue(req, "title"); !ok || v != "Hello" {
		t.Errorf("title: got (%q, %v)", v, ok)
	}
	if v := optionalString(req, "excerpt"); v == nil || *v != "" {
		t.Errorf("excerpt: sent empty, got %v", v)
	}
	if v := optionalString(req, "content"); v != nil {
		t.Errorf("content: not sent, got %q", *v)
	}
	if formFile(req, "cover") != nil {
		t.Error("url-encoded body has no files")
	}
}

func TestOptionalInt(t *testing.T) {
	tests := []struct {
		body    string
		want    *int64
		wantErr bool
	}{
		{"", nil, false},
		{"read_time=", nil, false},
		{"read_time=%20", nil, false},
		{"read_time=7", int64Ptr(7), false},
		{"read_time=%207%20", int64Ptr(7), false},
		{"read_time=0", int64Ptr(0), false},
		{"read_time=seven", nil, true},
		{"read_time=1.5", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			if err := req.ParseForm(); err != nil {
				t.Fatal(err)
			}

			got, err := optionalInt(req, "read_time")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err: got %v, wantErr %v", err, tt.wantErr)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("got %d, want nil", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("got %v, want %d", got, *tt.want)
			}
		})
	}
}

func TestFormFileSkipsEmptyParts(t *testing.T) {
	req := multipartRequest(t, http.MethodPost, "/", nil,
		formFileField{"cover", "", nil},
		formFileField{"thumbnail", "pic.png", []byte("x")},
	)
	if err := parseForm(httptest.NewRecorder(), req, 1024); err != nil {
		t.Fatalf("parseForm: %v", err)
	}

	fh := formFile(req, coverFields...)
	if fh == nil {
		t.Fatal("expected the thumbnail part")
	}
	if fh.Filename != "pic.png" {
		t.Errorf("filename: got %q", fh.Filename)
	}
}
