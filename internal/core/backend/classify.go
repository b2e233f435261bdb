package backend

import (
	"net/http"
	"strings"
)

// ClassifyStatus maps an HTTP status from a provider to a failure kind.
// Adapters classify from status codes first; message sniffing is the last
// resort only.
func ClassifyStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindQuota
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return KindNetwork
	default:
		return KindUnknown
	}
}

// ClassifyMessage is the fallback classifier for providers that only
// surface free-text errors. All substring sniffing in the system lives
// here and nowhere else.
func ClassifyMessage(message string) Kind {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "unauthorized"),
		strings.Contains(m, "authentication"),
		strings.Contains(m, "invalid api key"),
		strings.Contains(m, "permission denied"):
		return KindAuth
	case strings.Contains(m, "quota"),
		strings.Contains(m, "rate limit"),
		strings.Contains(m, "resource exhausted"):
		return KindQuota
	case strings.Contains(m, "network"),
		strings.Contains(m, "connection"),
		strings.Contains(m, "timeout"),
		strings.Contains(m, "deadline exceeded"):
		return KindNetwork
	default:
		return KindUnknown
	}
}

// ClassifyError wraps an unclassified error, sniffing its message before
// settling on the caller's fallback kind. An existing classification wins.
func ClassifyError(err error, fallback Kind) *Error {
	if k := KindOf(err); k != KindUnknown {
		return WrapError(fallback, err)
	}
	if k := ClassifyMessage(err.Error()); k != KindUnknown {
		return &Error{Kind: k, Message: Sanitize(err.Error()), Err: err}
	}
	return &Error{Kind: fallback, Message: Sanitize(err.Error()), Err: err}
}

// classify prefers the status code and falls back to the message, then to
// the caller's default kind when neither is conclusive.
func classify(status int, message string, fallback Kind) Kind {
	if k := ClassifyStatus(status); k != KindUnknown {
		return k
	}
	if k := ClassifyMessage(message); k != KindUnknown {
		return k
	}
	return fallback
}
