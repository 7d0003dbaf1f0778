// Package source contains the platform collaborators the pipeline
// ingests from. Every collaborator satisfies trend.Source: a fetch
// never returns an error, it degrades to generated mock data instead.
package source

import (
	"net/http"
	"time"
)

// placeholders are credential values that count as "not configured".
var placeholders = map[string]struct{}{
	"":                                 {},
	"placeholder":                      {},
	"your_access_token_here":           {},
	"your_tiktok_access_token_here":    {},
	"your_instagram_access_token_here": {},
	"your_facebook_access_token_here":  {},
	"your_pinterest_access_token_here": {},
}

// validCredential reports whether a credential is usable, rejecting
// empty and well-known placeholder values.
func validCredential(value string) bool {
	_, placeholder := placeholders[value]
	return !placeholder
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
	}
}

// mockTimestamp returns a recent, slightly staggered timestamp for the
// i-th mock item so recency scoring stays meaningful on mock data.
func mockTimestamp(i int) string {
	return time.Now().UTC().Add(-time.Duration(i) * 3 * time.Hour).Format(time.RFC3339)
}
