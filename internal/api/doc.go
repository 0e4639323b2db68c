// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

// Package api exposes the bestseller browsing endpoints over HTTP.
//
// All routes hang off /api and return JSON. Handlers validate request
// parameters before touching the database, map typed database errors to
// HTTP status codes, and never leak internal error detail in 500
// responses. Routing is chi with CORS, rate limiting, request-id
// propagation, and Prometheus instrumentation applied per route group.
package api
