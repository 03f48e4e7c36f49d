package agent

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestClassify_Quota(t *testing.T) {
	cases := []string{
		"llm error (status 429): Too Many Requests",
		"rate limit reached for gemma2-9b-it",
		"rate_limit_exceeded",
		"you have exceeded your quota",
	}
	for _, msg := range cases {
		if got := Classify(errors.New(msg)); got != FailureQuotaExceeded {
			t.Errorf("Classify(%q) = %v, want quota", msg, got)
		}
	}
}

func TestClassify_Auth(t *testing.T) {
	cases := []string{
		"llm error (status 401): Invalid API Key",
		"authentication failed",
		"unauthorized",
		"invalid api_key provided",
	}
	for _, msg := range cases {
		if got := Classify(errors.New(msg)); got != FailureAuthFailed {
			t.Errorf("Classify(%q) = %v, want auth", msg, got)
		}
	}
}

func TestClassify_ModelUnavailable(t *testing.T) {
	cases := []string{
		"llm error (status 503): service unavailable",
		"model_not_found",
		"the model has been decommissioned",
		"dial tcp: connection refused",
		"context deadline exceeded",
	}
	for _, msg := range cases {
		if got := Classify(errors.New(msg)); got != FailureModelUnavailable {
			t.Errorf("Classify(%q) = %v, want model-unavailable", msg, got)
		}
	}
}

func TestClassify_UnknownFallback(t *testing.T) {
	if got := Classify(errors.New("something entirely novel went wrong")); got != FailureUnknown {
		t.Fatalf("Classify = %v, want unknown", got)
	}
	if got := Classify(nil); got != FailureUnknown {
		t.Fatalf("Classify(nil) = %v, want unknown", got)
	}
}

func TestFailureCategory_String(t *testing.T) {
	cases := map[FailureCategory]string{
		FailureUnknown:          "unknown",
		FailureQuotaExceeded:    "quota_exceeded",
		FailureAuthFailed:       "auth_failed",
		FailureModelUnavailable: "model_unavailable",
	}
	for c, want := range cases {
		if c.String() != want {
			t.Errorf("String() = %q, want %q", c.String(), want)
		}
	}
}

func TestFailureCategory_Status(t *testing.T) {
	if FailureQuotaExceeded.Status() != http.StatusTooManyRequests {
		t.Error("quota must map to 429")
	}
	for _, c := range []FailureCategory{FailureUnknown, FailureAuthFailed, FailureModelUnavailable} {
		if c.Status() != http.StatusInternalServerError {
			t.Errorf("category %v must map to 500", c)
		}
	}
}

func TestFailureCategory_MessageLeaksNothing(t *testing.T) {
	for _, c := range []FailureCategory{FailureUnknown, FailureAuthFailed, FailureModelUnavailable, FailureQuotaExceeded} {
		msg := c.Message()
		if msg == "" {
			t.Errorf("category %v has empty message", c)
		}
	}
}

func TestTrimContext(t *testing.T) {
	count := func(s string) int { return len(s) }

	texts := []string{"aaaa", "bbbb", "cccc"}
	got := TrimContext(texts, 8, count)
	if len(got) != 2 || got[0] != "aaaa" || got[1] != "bbbb" {
		t.Fatalf("TrimContext = %v", got)
	}

	if got := TrimContext(texts, 100, count); len(got) != 3 {
		t.Fatalf("budget not exceeded, got %v", got)
	}
	if got := TrimContext(nil, 10, count); len(got) != 0 {
		t.Fatalf("empty input, got %v", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt("What is X?", []string{"ctx one", "ctx two"})
	for _, want := range []string{"What is X?", "ctx one", "ctx two", "<context>"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
