// Package askdoc provides the core abstractions shared by the askdoc hosts.
// This package defines the Querier interface that the conversation store
// drives and the helpers for validating the backend address.
package askdoc

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const (
	// QueryPath is the backend route that answers questions.
	QueryPath = "/query"
	// HealthPath is the backend route that reports readiness.
	HealthPath = "/health"
)

// Querier sends one question to the backend and returns the reply text.
//
// Example usage:
//
//	client := query.NewClient("http://localhost:8000")
//	reply, err := client.Send(ctx, "What is chapter 3 about?")
type Querier interface {
	Send(ctx context.Context, query string) (string, error)
}

// QuerierFunc adapts a plain function to the Querier interface.
type QuerierFunc func(ctx context.Context, query string) (string, error)

// Send calls f(ctx, query).
func (f QuerierFunc) Send(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

// ParseBaseURL validates a backend base URL and returns it without a trailing slash.
//
// Example:
//
//	base, err := ParseBaseURL("http://localhost:8000/")
//	// base = "http://localhost:8000"
func ParseBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("base URL cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid base URL %q (expected http:// or https://)", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("invalid base URL %q: query and fragment are not allowed", raw)
	}

	return strings.TrimRight(raw, "/"), nil
}

// Endpoint joins a base URL and a route path.
//
// Example:
//
//	endpoint := Endpoint("http://localhost:8000/", QueryPath)
//	// endpoint = "http://localhost:8000/query"
func Endpoint(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
