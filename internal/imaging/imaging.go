// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging inspects uploaded files: it sniffs the content type and,
// for raster images, reads the pixel dimensions from the header without
// decoding the full image.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"net/http"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp" // register WebP decoder
)

// maxImagePixels bounds the reported dimensions so a crafted header cannot
// claim an absurd canvas.
const maxImagePixels = 50_000_000

// Info describes an uploaded file.
type Info struct {
	ContentType string
	Width       int
	Height      int
}

// IsImage reports whether the sniffed type is an image.
func (i Info) IsImage() bool {
	return strings.HasPrefix(i.ContentType, "image/")
}

// Probe returns the content type of data and, for decodable raster images,
// its dimensions. filename is only consulted to recognise SVG, which
// content sniffing reports as XML or plain text.
func Probe(data []byte, filename string) Info {
	contentType := http.DetectContentType(data)

	if strings.EqualFold(filepath.Ext(filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		return Info{ContentType: "image/svg+xml"}
	}

	info := Info{ContentType: contentType}
	if !info.IsImage() {
		return info
	}
	if w, h, err := Dimensions(data); err == nil {
		info.Width, info.Height = w, h
	}
	return info
}

// Dimensions reads the width and height from an image header.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode config: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return 0, 0, fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}
	return cfg.Width, cfg.Height, nil
}
