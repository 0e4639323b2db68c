// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package imageproxy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestProxy(hosts ...string) *Proxy {
	return New(hosts, 5*time.Second)
}

func TestValidate(t *testing.T) {
	proxy := newTestProxy("static01.nyt.com", "storage.googleapis.com")

	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{"allowed host", "https://static01.nyt.com/images/cover.jpg", nil},
		{"allowed host with port path", "https://storage.googleapis.com/bucket/img.png", nil},
		{"case insensitive host", "https://Static01.NYT.com/cover.jpg", nil},
		{"off-list host", "https://evil.example.com/cover.jpg", ErrHostNotAllowed},
		{"subdomain of allowed host", "https://sub.static01.nyt.com/x.jpg", ErrHostNotAllowed},
		{"empty url", "", ErrBadURL},
		{"not a url", "://///", ErrBadURL},
		{"file scheme", "file:///etc/passwd", ErrBadURL},
		{"missing host", "https:///cover.jpg", ErrBadURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := proxy.Validate(tt.url)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate(%q) = %v, want nil", tt.url, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%q) = %v, want %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestServeRejectedWithoutFetch(t *testing.T) {
	fetched := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched = true
	}))
	defer srv.Close()

	// Server host deliberately not on the allow-list.
	proxy := newTestProxy("static01.nyt.com")
	rec := httptest.NewRecorder()
	err := proxy.Serve(context.Background(), rec, srv.URL+"/cover.jpg")
	if !errors.Is(err, ErrHostNotAllowed) {
		t.Fatalf("Serve() = %v, want ErrHostNotAllowed", err)
	}
	if fetched {
		t.Error("upstream was fetched for a rejected host")
	}
}

func TestServeRelaysImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	host := mustHostname(t, srv.URL)
	proxy := newTestProxy(host)

	rec := httptest.NewRecorder()
	if err := proxy.Serve(context.Background(), rec, srv.URL+"/cover.jpg"); err != nil {
		t.Fatalf("Serve() = %v", err)
	}
	if got := rec.Body.String(); got != "jpeg-bytes" {
		t.Errorf("body = %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc == "" {
		t.Error("Cache-Control not set")
	}
}

func TestServeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	proxy := newTestProxy(mustHostname(t, srv.URL))
	rec := httptest.NewRecorder()
	err := proxy.Serve(context.Background(), rec, srv.URL+"/missing.jpg")
	if err == nil {
		t.Fatal("expected error for upstream 404")
	}
	if errors.Is(err, ErrBadURL) || errors.Is(err, ErrHostNotAllowed) {
		t.Errorf("err = %v, want plain upstream error", err)
	}
}

func mustHostname(t *testing.T, rawURL string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("parse %q: %v", rawURL, err)
	}
	return u.Hostname()
}
