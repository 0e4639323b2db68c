// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

/*
Package middleware provides HTTP middleware for the Bestskrellerz API.

Middleware is written against http.HandlerFunc and adapted to chi's
func(http.Handler) http.Handler form by the router.

Provided middleware:

  - RequestID: generates or propagates X-Request-ID and places it in the
    request context for structured logging
  - PrometheusMetrics: records request counts, durations, and active
    request gauges
*/
package middleware
