// ABOUTME: Typed errors for the Webflow item API client
// ABOUTME: Classifies responses into retryable and terminal kinds for the orchestrator
package webflow

import "fmt"

// ErrorKind classifies an API failure for retry policy decisions.
type ErrorKind int

const (
	// KindRequest covers malformed requests and other terminal 4xx responses.
	KindRequest ErrorKind = iota
	// KindRateLimited marks a throttling response; retryable with backoff.
	KindRateLimited
	// KindAuth marks a credential problem; terminal, surfaced to the operator.
	KindAuth
	// KindServer marks a 5xx response; retryable with bounded attempts.
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindAuth:
		return "auth"
	case KindServer:
		return "server"
	default:
		return "request"
	}
}

// APIError carries enough context to retry an item manually: the collection
// and slug being written plus the raw response.
type APIError struct {
	Collection string
	Slug       string
	StatusCode int
	Body       string
	Kind       ErrorKind
}

func (e *APIError) Error() string {
	if e.Slug != "" {
		return fmt.Sprintf("webflow %s error (HTTP %d) for %s/%s: %s",
			e.Kind, e.StatusCode, e.Collection, e.Slug, e.Body)
	}
	return fmt.Sprintf("webflow %s error (HTTP %d) for collection %s: %s",
		e.Kind, e.StatusCode, e.Collection, e.Body)
}

// Retryable reports whether the orchestrator may retry with backoff. The
// client itself never retries.
func (e *APIError) Retryable() bool {
	return e.Kind == KindRateLimited || e.Kind == KindServer
}

func classifyStatus(code int) ErrorKind {
	switch {
	case code == 429:
		return KindRateLimited
	case code == 401 || code == 403:
		return KindAuth
	case code >= 500:
		return KindServer
	default:
		return KindRequest
	}
}
