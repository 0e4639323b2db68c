// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

// Package imageproxy fetches book cover images from a fixed set of
// upstream hosts on behalf of browser clients, which cannot load them
// directly due to hotlink protection.
package imageproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/virginiais4lovers/bestskrellerz/internal/logging"
	"github.com/virginiais4lovers/bestskrellerz/internal/metrics"
)

var (
	// ErrBadURL marks a request URL that cannot be parsed or is not
	// plain http(s).
	ErrBadURL = errors.New("malformed image URL")

	// ErrHostNotAllowed marks an upstream host outside the allow-list.
	ErrHostNotAllowed = errors.New("image host not allowed")
)

// maxImageBytes caps how much of an upstream response is relayed.
const maxImageBytes = 10 << 20

// Proxy validates and relays image fetches. The allow-list is fixed at
// construction; a URL is rejected before any outbound request is made.
type Proxy struct {
	hosts  map[string]bool
	client *http.Client
	cb     *gobreaker.CircuitBreaker[*http.Response]
}

// New builds a proxy for the given upstream hosts. Host comparison is
// case-insensitive and exact, no subdomain matching.
func New(hosts []string, timeout time.Duration) *Proxy {
	allowed := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		allowed[strings.ToLower(h)] = true
	}

	cbName := "image-proxy"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)
	cb := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	})

	return &Proxy{
		hosts:  allowed,
		client: &http.Client{Timeout: timeout},
		cb:     cb,
	}
}

// Validate parses rawURL and checks it against the allow-list. No
// network traffic happens here.
func (p *Proxy) Validate(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("%w: empty url parameter", ErrBadURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrBadURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host", ErrBadURL)
	}
	if !p.hosts[strings.ToLower(u.Hostname())] {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}
	return u, nil
}

// Serve validates rawURL, fetches it upstream, and streams the image
// body to w. Rejected URLs never reach the network.
func (p *Proxy) Serve(ctx context.Context, w http.ResponseWriter, rawURL string) error {
	u, err := p.Validate(rawURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrHostNotAllowed):
			metrics.ImageProxyRequests.WithLabelValues("rejected_host").Inc()
		default:
			metrics.ImageProxyRequests.WithLabelValues("bad_url").Inc()
		}
		return err
	}

	start := time.Now()
	resp, err := p.cb.Execute(func() (*http.Response, error) {
		return p.fetch(ctx, u.String())
	})
	metrics.ImageProxyFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ImageProxyRequests.WithLabelValues("upstream_error").Inc()
		return fmt.Errorf("upstream image fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(w, io.LimitReader(resp.Body, maxImageBytes)); err != nil {
		// Headers are already out; nothing to do but log.
		logging.Ctx(ctx).Warn().Err(err).Str("host", u.Hostname()).Msg("Image relay interrupted")
		return nil
	}

	metrics.ImageProxyRequests.WithLabelValues("success").Inc()
	return nil
}

func (p *Proxy) fetch(ctx context.Context, imageURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}
	return resp, nil
}
