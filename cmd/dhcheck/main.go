// Copyright (c) 2025-2026 Dream House Cooperative
// SPDX-License-Identifier: GPL-3.0-or-later

// dhcheck probes a running instance's public API endpoints and prints
// a pass/fail summary. Read-only: it never mutates anything.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "dhcheck - Dream House API health probe\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Environment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DH_BASE_URL   Instance base URL (default: http://localhost:8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  DH_API_KEY    API key; when set, the key endpoints are probed too\n")
	}
	flag.Parse()

	_ = godotenv.Load()

	baseURL := os.Getenv("DH_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	baseURL = strings.TrimRight(baseURL, "/")
	apiKey := os.Getenv("DH_API_KEY")

	if !runChecks(os.Stdout, baseURL, apiKey) {
		os.Exit(1)
	}
}

// check is one probe: a GET against path, optionally authenticated,
// passing when the status matches and verify (if set) accepts the body.
type check struct {
	name     string
	path     string
	withKey  bool
	wantCode int
	verify   func(body []byte) error
}

func checks(hasKey bool) []check {
	all := []check{
		{name: "status", path: "/api/v1/status", wantCode: http.StatusOK, verify: verifyStatus},
		{name: "health", path: "/healthz", wantCode: http.StatusOK},
		{name: "news list", path: "/api/v1/news", wantCode: http.StatusOK},
		{name: "press list", path: "/api/v1/press", wantCode: http.StatusOK},
		{name: "footsteps list", path: "/api/v1/footsteps", wantCode: http.StatusOK},
		{name: "auth rejects anonymous", path: "/api/v1/auth", wantCode: http.StatusUnauthorized},
	}
	if hasKey {
		all = append(all,
			check{name: "auth accepts key", path: "/api/v1/auth", withKey: true, wantCode: http.StatusOK},
		)
	}
	return all
}

func verifyStatus(body []byte) error {
	var resp struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}
	if resp.Data.Status != "ok" {
		return fmt.Errorf("status = %q, want ok", resp.Data.Status)
	}
	return nil
}

func runChecks(w *os.File, baseURL, apiKey string) bool {
	client := &http.Client{Timeout: 10 * time.Second}
	passed := 0
	failed := 0

	for _, c := range checks(apiKey != "") {
		if err := runCheck(client, baseURL, apiKey, c); err != nil {
			failed++
			_, _ = fmt.Fprintf(w, "FAIL  %-26s %s\n", c.name, err)
			continue
		}
		passed++
		_, _ = fmt.Fprintf(w, "ok    %-26s GET %s\n", c.name, c.path)
	}

	_, _ = fmt.Fprintf(w, "\n%d passed, %d failed (%s)\n", passed, failed, baseURL)
	return failed == 0
}

func runCheck(client *http.Client, baseURL, apiKey string, c check) error {
	req, err := http.NewRequest(http.MethodGet, baseURL+c.path, nil)
	if err != nil {
		return err
	}
	if c.withKey {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != c.wantCode {
		return fmt.Errorf("GET %s: status %d, want %d", c.path, resp.StatusCode, c.wantCode)
	}
	if c.verify != nil {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return fmt.Errorf("GET %s: reading body: %w", c.path, err)
		}
		if err := c.verify(body); err != nil {
			return fmt.Errorf("GET %s: %w", c.path, err)
		}
	}
	return nil
}
