package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOpenAIProviderNoKey(t *testing.T) {
	_, err := NewOpenAIProvider("")
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body["model"] != "gpt-4o-mini" {
			t.Errorf("model = %v, want gpt-4o-mini", body["model"])
		}
		msgs := body["messages"].([]any)
		if len(msgs) != 2 {
			t.Fatalf("got %d messages, want 2", len(msgs))
		}
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"generated report text"}}]}`)
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider("test-key", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	out, err := p.Complete(context.Background(), "you are an analyst", "write the report",
		Options{Model: "gpt-4o-mini", Temperature: 0.2})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "generated report text" {
		t.Errorf("Complete() = %q", out)
	}
}

func TestCompleteStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limit exceeded","type":"requests"}}`)
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider("test-key", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Complete(context.Background(), "sys", "user", Options{})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("StatusCode = %d, want 429", statusErr.StatusCode)
	}
}

func TestCompleteEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider("test-key", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	_, err = p.Complete(context.Background(), "sys", "user", Options{})
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}
