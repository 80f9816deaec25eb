// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestParseNullInt64(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue int64
	}{
		{"empty", "", false, 0},
		{"zero", "0", false, 0},
		{"positive", "42", true, 42},
		{"negative", "-7", true, -7},
		{"garbage", "abc", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNullInt64(tt.input)
			if got.Valid != tt.wantValid {
				t.Errorf("ParseNullInt64(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if got.Valid && got.Int64 != tt.wantValue {
				t.Errorf("ParseNullInt64(%q).Int64 = %d, want %d", tt.input, got.Int64, tt.wantValue)
			}
		})
	}
}

func TestParseNullInt64Positive(t *testing.T) {
	if got := ParseNullInt64Positive("-7"); got.Valid {
		t.Errorf("ParseNullInt64Positive(-7) should be invalid")
	}
	if got := ParseNullInt64Positive("7"); !got.Valid || got.Int64 != 7 {
		t.Errorf("ParseNullInt64Positive(7) = %+v, want valid 7", got)
	}
}

func TestNullStringFromValue(t *testing.T) {
	if got := NullStringFromValue(""); got.Valid {
		t.Error("NullStringFromValue(\"\") should be invalid")
	}
	if got := NullStringFromValue("x"); !got.Valid || got.String != "x" {
		t.Errorf("NullStringFromValue(\"x\") = %+v, want valid x", got)
	}
}

func TestNullInt64FromPtr(t *testing.T) {
	if got := NullInt64FromPtr(nil); got.Valid {
		t.Error("NullInt64FromPtr(nil) should be invalid")
	}
	v := int64(9)
	if got := NullInt64FromPtr(&v); !got.Valid || got.Int64 != 9 {
		t.Errorf("NullInt64FromPtr(&9) = %+v, want valid 9", got)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "photo.jpg", "photo.jpg", false},
		{"with directory", "uploads/photo.jpg", "photo.jpg", false},
		{"traversal", "../../etc/passwd", "passwd", false},
		{"dot", ".", "", true},
		{"dotdot", "..", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
