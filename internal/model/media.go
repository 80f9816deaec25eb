// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Supported upload MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// IsSupportedMimeType reports whether an uploaded file type is accepted.
func IsSupportedMimeType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// ImageVariantConfig describes one resized rendition of an upload.
type ImageVariantConfig struct {
	Width   int
	Height  int
	Quality int
	Crop    bool
}

// ImageVariants lists the renditions generated for every image upload.
// Thumbnails back the news and footsteps list cards; hero images are
// used full-width on detail pages.
var ImageVariants = map[string]ImageVariantConfig{
	"thumbnail": {Width: 400, Height: 300, Quality: 82, Crop: true},
	"medium":    {Width: 800, Height: 600, Quality: 85, Crop: false},
	"hero":      {Width: 1600, Height: 900, Quality: 88, Crop: false},
}
