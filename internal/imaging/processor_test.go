// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"testing"

	"github.com/dreamhouse-coop/dreamhouse-go/internal/model"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodeTestJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(width, height), nil); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestProcessorIsSupportedType(t *testing.T) {
	p := NewProcessor("./uploads")

	tests := []struct {
		mimeType string
		want     bool
	}{
		{model.MimeTypeJPEG, true},
		{model.MimeTypePNG, true},
		{model.MimeTypeGIF, true},
		{model.MimeTypeWebP, true},
		{"application/pdf", false},
		{"application/octet-stream", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mimeType, func(t *testing.T) {
			if got := p.IsSupportedType(tt.mimeType); got != tt.want {
				t.Errorf("IsSupportedType(%q) = %v, want %v", tt.mimeType, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg magic bytes", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg"},
		{"png magic bytes", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, "png"},
		{"gif magic bytes", []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}, "gif"},
		{"unknown", []byte{0x00, 0x01, 0x02, 0x03}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.data); got != tt.want {
				t.Errorf("detectFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectFormatFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"photo.jpg", "jpeg"},
		{"photo.jpeg", "jpeg"},
		{"photo.JPG", "jpeg"},
		{"photo.png", "png"},
		{"photo.gif", "gif"},
		{"photo.webp", "webp"},
		{"photo.unknown", "jpeg"},
		{"noextension", "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := detectFormatFromFilename(tt.filename); got != tt.want {
				t.Errorf("detectFormatFromFilename(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestApplyOrientation(t *testing.T) {
	// Verify no panic for all orientations including out-of-range values.
	for orientation := 0; orientation <= 9; orientation++ {
		img := createTestImage(10, 10)
		result := applyOrientation(img, orientation)
		if result == nil {
			t.Errorf("applyOrientation(%d) returned nil", orientation)
		}
	}
}

func TestProcessImage(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	data := encodeTestJPEG(t, 120, 80)

	result, err := p.ProcessImage(bytes.NewReader(data), "test-id", "photo.jpg")
	if err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}
	if result.Width != 120 || result.Height != 80 {
		t.Errorf("dimensions = %dx%d, want 120x80", result.Width, result.Height)
	}
	if result.MimeType != model.MimeTypeJPEG {
		t.Errorf("MimeType = %q, want %q", result.MimeType, model.MimeTypeJPEG)
	}

	w, h, err := p.GetImageDimensions(result.FilePath)
	if err != nil {
		t.Fatalf("GetImageDimensions: %v", err)
	}
	if w != 120 || h != 80 {
		t.Errorf("saved dimensions = %dx%d, want 120x80", w, h)
	}
}

func TestProcessImageRejectsUnknownFormat(t *testing.T) {
	p := NewProcessor(t.TempDir())

	_, err := p.ProcessImage(bytes.NewReader([]byte{0x00, 0x01, 0x02, 0x03}), "test-id", "file.bin")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestCreateVariantCrops(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	data := encodeTestJPEG(t, 1200, 800)
	result, err := p.ProcessImage(bytes.NewReader(data), "crop-id", "photo.jpg")
	if err != nil {
		t.Fatalf("ProcessImage: %v", err)
	}

	variant, err := p.CreateVariant(result.FilePath, "crop-id", "photo.jpg",
		model.ImageVariants["thumbnail"], "thumbnail")
	if err != nil {
		t.Fatalf("CreateVariant: %v", err)
	}
	if variant == nil {
		t.Fatal("expected thumbnail variant, got nil")
	}
	if variant.Width != 400 || variant.Height != 300 {
		t.Errorf("thumbnail = %dx%d, want 400x300", variant.Width, variant.Height)
	}
	if filepath.Dir(filepath.Dir(variant.FilePath)) != filepath.Join(dir, "thumbnail") {
		// The variant lives under <uploadDir>/thumbnail/<id>/
		t.Errorf("variant path = %q, not under thumbnail dir", variant.FilePath)
	}
}

func TestSaveImageFileRejectsTraversal(t *testing.T) {
	p := NewProcessor(t.TempDir())

	if _, err := p.saveImageFile("../outside", "photo.jpg", []byte("x")); err == nil {
		t.Error("expected error for subdir traversal")
	}
	if _, err := p.saveImageFile("originals/id", "..", []byte("x")); err == nil {
		t.Error("expected error for invalid filename")
	}
}
