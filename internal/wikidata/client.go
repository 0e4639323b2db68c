// Bestskrellerz - Bestseller List Tracker and API
// Copyright 2026 The Bestskrellerz Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/virginiais4lovers/bestskrellerz

package wikidata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/virginiais4lovers/bestskrellerz/internal/config"
	"github.com/virginiais4lovers/bestskrellerz/internal/logging"
	"github.com/virginiais4lovers/bestskrellerz/internal/metrics"
)

// SeriesMatch is one resolved series membership, keyed by the queried
// title in QueryTitles results.
type SeriesMatch struct {
	SeriesName       string
	SeriesOrder      *int
	WikidataBookID   string
	WikidataSeriesID string
}

// Client queries the Wikidata SPARQL endpoint for series statements.
//
// Safe for concurrent use. Each request creates its own HTTP request;
// all calls share one circuit breaker.
type Client struct {
	endpoint  string
	userAgent string
	client    *http.Client
	cb        *gobreaker.CircuitBreaker[*sparqlResponse]
}

// NewClient creates a SPARQL client with circuit breaker protection.
// The breaker opens after 60% failures over at least 5 requests and
// probes again after one minute.
func NewClient(cfg *config.WikidataConfig) *Client {
	cbName := "wikidata-sparql"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[*sparqlResponse](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &Client{
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		cb:        cb,
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// sparqlResponse is the application/sparql-results+json envelope.
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]sparqlValue `json:"bindings"`
	} `json:"results"`
}

type sparqlValue struct {
	Value string `json:"value"`
}

// smallWords stay lowercase in title case unless they lead the title.
var smallWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "but": true,
	"or": true, "for": true, "nor": true, "on": true, "at": true,
	"to": true, "by": true, "of": true, "in": true, "with": true,
	"from": true, "into": true, "as": true,
}

// ToTitleCase rewrites an all-caps or lowercase title into the title
// case Wikidata uses for English labels.
func ToTitleCase(title string) string {
	words := strings.Fields(strings.ToLower(title))
	for i, word := range words {
		if i == 0 || !smallWords[word] {
			words[i] = capitalize(word)
		}
	}
	return strings.Join(words, " ")
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError && size <= 1 {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}

// escapeSPARQL escapes quote characters for embedding in a SPARQL
// string literal.
func escapeSPARQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

// batchQueryTemplate matches English labels against literary works and
// pulls each work's series (P179) with its ordinal qualifier (P1545).
const batchQueryTemplate = `
SELECT ?title ?item ?series ?seriesLabel ?position WHERE {
  VALUES (?title) { %s }
  ?item rdfs:label ?title .
  { ?item wdt:P31/wdt:P279* wd:Q7725634 . }
  UNION
  { ?item wdt:P31/wdt:P279* wd:Q571 . }
  UNION
  { ?item wdt:P31/wdt:P279* wd:Q47461344 . }
  ?item wdt:P179 ?series .
  OPTIONAL {
    ?item p:P179 ?stmt .
    ?stmt ps:P179 ?series ;
          pq:P1545 ?position .
  }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}`

// QueryTitles resolves series membership for a batch of titles in a
// single SPARQL request. The returned map is keyed by the original
// title as passed in, not its title-cased form. Titles with no series
// statement are simply absent.
func (c *Client) QueryTitles(ctx context.Context, titles []string) (map[string]SeriesMatch, error) {
	if len(titles) == 0 {
		return map[string]SeriesMatch{}, nil
	}

	values := make([]string, 0, len(titles))
	// Wikidata labels come back in their canonical casing, so matches
	// are mapped to original titles case-insensitively.
	originals := make(map[string]string, len(titles))
	for _, title := range titles {
		cased := ToTitleCase(title)
		values = append(values, fmt.Sprintf(`("%s"@en)`, escapeSPARQL(cased)))
		originals[strings.ToLower(cased)] = title
	}

	query := fmt.Sprintf(batchQueryTemplate, strings.Join(values, " "))

	start := time.Now()
	resp, err := c.cb.Execute(func() (*sparqlResponse, error) {
		return c.doQuery(ctx, query)
	})
	metrics.WikidataQueryDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	matches := make(map[string]SeriesMatch)
	for _, binding := range resp.Results.Bindings {
		label := binding["title"].Value
		seriesName := binding["seriesLabel"].Value
		if label == "" || seriesName == "" {
			continue
		}
		// A bare Q-number label means the series has no English name.
		if isQID(seriesName) {
			continue
		}

		original, ok := originals[strings.ToLower(label)]
		if !ok {
			original = label
		}
		if _, seen := matches[original]; seen {
			continue
		}

		match := SeriesMatch{
			SeriesName:       seriesName,
			WikidataBookID:   entityID(binding["item"].Value),
			WikidataSeriesID: entityID(binding["series"].Value),
		}
		if pos := binding["position"].Value; pos != "" {
			if n, err := strconv.Atoi(pos); err == nil {
				match.SeriesOrder = &n
			} else if f, err := strconv.ParseFloat(pos, 64); err == nil {
				n := int(f)
				match.SeriesOrder = &n
			}
		}
		matches[original] = match
	}

	return matches, nil
}

func (c *Client) doQuery(ctx context.Context, query string) (*sparqlResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SPARQL request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("SPARQL request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var parsed sparqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode SPARQL response: %w", err)
	}
	return &parsed, nil
}

// entityID extracts the trailing Q-number from an entity URI.
func entityID(uri string) string {
	if uri == "" {
		return ""
	}
	return uri[strings.LastIndex(uri, "/")+1:]
}

func isQID(s string) bool {
	if len(s) < 2 || s[0] != 'Q' {
		return false
	}
	_, err := strconv.Atoi(s[1:])
	return err == nil
}
