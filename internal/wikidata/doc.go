// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

// Package wikidata resolves book series membership through the Wikidata
// SPARQL endpoint.
//
// The Client batches titles into a single VALUES query matching English
// labels against literary works, reading the series statement (P179) and
// its ordinal qualifier (P1545). The Enricher drives the client over the
// backlog of books with no recorded series, persisting hits through the
// database layer and pacing batches to stay polite to the public
// endpoint. SPARQL calls run behind a circuit breaker so a degraded
// endpoint cannot stall enrichment runs indefinitely.
package wikidata
