package agent

import (
	"net/http"
	"strings"
)

// FailureCategory is the stable classification of an answer failure. The
// boundary layer maps it to a status code and user-facing message without
// ever exposing the raw provider error.
type FailureCategory int

const (
	FailureUnknown FailureCategory = iota
	FailureModelUnavailable
	FailureQuotaExceeded
	FailureAuthFailed
)

// Classify inspects an error description for known provider failure
// signatures. Keyword matching on free text is fragile, so it lives in this
// one function only; anything unrecognized falls through to FailureUnknown.
func Classify(err error) FailureCategory {
	if err == nil {
		return FailureUnknown
	}
	msg := strings.ToLower(err.Error())

	switch {
	case containsAny(msg,
		"rate limit", "rate_limit", "quota", "too many requests", "status 429"):
		return FailureQuotaExceeded
	case containsAny(msg,
		"api key", "api_key", "unauthorized", "authentication", "invalid key", "status 401", "status 403"):
		return FailureAuthFailed
	case containsAny(msg,
		"model_not_found", "model not found", "decommissioned", "unavailable",
		"status 503", "connection refused", "no such host", "deadline exceeded", "timeout"):
		return FailureModelUnavailable
	default:
		return FailureUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func (c FailureCategory) String() string {
	switch c {
	case FailureQuotaExceeded:
		return "quota_exceeded"
	case FailureAuthFailed:
		return "auth_failed"
	case FailureModelUnavailable:
		return "model_unavailable"
	default:
		return "unknown"
	}
}

// Status maps the category to the HTTP status returned by /ask.
func (c FailureCategory) Status() int {
	if c == FailureQuotaExceeded {
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// Message is the user-facing error text. Deliberately free of paths, keys
// and raw provider output.
func (c FailureCategory) Message() string {
	switch c {
	case FailureQuotaExceeded:
		return "The answering service is rate limited right now. Please try again in a moment."
	case FailureAuthFailed:
		return "The answering service rejected the configured credentials."
	case FailureModelUnavailable:
		return "The language model is currently unavailable. Please try again later."
	default:
		return "Could not generate an answer. Please try again."
	}
}
