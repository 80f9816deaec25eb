// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func TestSitemapBuilder(t *testing.T) {
	updated := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	b := NewSitemapBuilder("https://dreamhouse.coop/")
	b.AddHomepage()
	b.AddSection("/news")
	b.AddEntries("/news", []SitemapEntry{
		{Slug: "spring-festival", UpdatedAt: updated},
		{Slug: "new-program"},
	})

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var parsed Sitemap
	if err := xml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("unmarshaling sitemap: %v", err)
	}

	if parsed.XMLNS != XMLNamespace {
		t.Errorf("xmlns = %q, want %q", parsed.XMLNS, XMLNamespace)
	}
	if len(parsed.URLs) != 4 {
		t.Fatalf("got %d URLs, want 4", len(parsed.URLs))
	}

	if parsed.URLs[0].Loc != "https://dreamhouse.coop/" {
		t.Errorf("homepage loc = %q", parsed.URLs[0].Loc)
	}
	if parsed.URLs[0].Priority != "1.0" {
		t.Errorf("homepage priority = %q, want 1.0", parsed.URLs[0].Priority)
	}
	if parsed.URLs[1].Loc != "https://dreamhouse.coop/news" {
		t.Errorf("section loc = %q", parsed.URLs[1].Loc)
	}
	if parsed.URLs[2].Loc != "https://dreamhouse.coop/news/spring-festival" {
		t.Errorf("entry loc = %q", parsed.URLs[2].Loc)
	}
	if parsed.URLs[2].LastMod != updated.Format(time.RFC3339) {
		t.Errorf("entry lastmod = %q", parsed.URLs[2].LastMod)
	}
	if parsed.URLs[3].LastMod != "" {
		t.Errorf("zero UpdatedAt should omit lastmod, got %q", parsed.URLs[3].LastMod)
	}
}

func TestSitemapBuildIncludesXMLHeader(t *testing.T) {
	b := NewSitemapBuilder("https://dreamhouse.coop")
	b.AddHomepage()

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.HasPrefix(string(out), "<?xml") {
		t.Errorf("output missing XML declaration: %q", string(out)[:20])
	}
}
