package i18n

import "testing"

func TestInit(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	if TranslationCount("ko") == 0 {
		t.Error("Expected Korean translations to be loaded")
	}
	if TranslationCount("en") == 0 {
		t.Error("Expected English translations to be loaded")
	}
}

func TestT(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		lang     string
		key      string
		expected string
	}{
		{"ko", "nav.news", "소식"},
		{"en", "nav.news", "News"},
		{"ko", "nav.notices", "공지사항"},
		{"en", "admin.dashboard", "Dashboard"},
		{"ko", "admin.dashboard", "대시보드"},
		// Fallback to Korean for unknown language
		{"de", "nav.news", "소식"},
		// Return key if not found
		{"ko", "nonexistent.key", "nonexistent.key"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"_"+tt.key, func(t *testing.T) {
			result := T(tt.lang, tt.key)
			if result != tt.expected {
				t.Errorf("T(%q, %q) = %q, want %q", tt.lang, tt.key, result, tt.expected)
			}
		})
	}
}

func TestMatchLanguage(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"ko", "ko"},
		{"en", "en"},
		{"ko-KR", "ko"},
		{"en-US", "en"},
		{"ja", "ko"},      // Falls back to default
		{"invalid", "ko"}, // Falls back to default
		{"en-US, ko;q=0.9", "en"},
		{"ko-KR, en;q=0.9", "ko"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := MatchLanguage(tt.input)
			if result != tt.expected {
				t.Errorf("MatchLanguage(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		lang     string
		expected bool
	}{
		{"ko", true},
		{"en", true},
		{"KO", true}, // Case insensitive
		{"EN", true},
		{"ja", false},
		{"ru", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			result := IsSupported(tt.lang)
			if result != tt.expected {
				t.Errorf("IsSupported(%q) = %v, want %v", tt.lang, result, tt.expected)
			}
		})
	}
}
