package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGeminiClientGenerate(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("unexpected request contents: %+v", req.Contents)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "hi "}, {"text": "there"}}}},
			},
		})
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key", "gemini-2.5-pro", nil)
	c.baseURL = srv.URL

	out, err := c.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hi there" {
		t.Errorf("expected joined parts %q, got %q", "hi there", out)
	}
	if gotPath != "/models/gemini-2.5-pro:generateContent" {
		t.Errorf("unexpected request path %q", gotPath)
	}
}

func TestGeminiClientRateLimitIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key", "gemini-2.5-pro", nil)
	c.baseURL = srv.URL

	_, err := c.Generate(context.Background(), "hello")
	var retryErr *RetryableError
	if !errors.As(err, &retryErr) {
		t.Fatalf("expected RetryableError, got %v", err)
	}
	if retryErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", retryErr.StatusCode)
	}
}

func TestGeminiClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "bad key", "status": "INVALID_ARGUMENT"},
		})
	}))
	defer srv.Close()

	c := NewGeminiClient("bad-key", "gemini-2.5-pro", nil)
	c.baseURL = srv.URL

	if _, err := c.Generate(context.Background(), "hello"); err == nil {
		t.Fatal("expected error from API error payload")
	}
}

func TestDeepSeekClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer ds-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "a summary"}},
			},
		})
	}))
	defer srv.Close()

	stats := NewStats(time.Hour)
	c := NewDeepSeekClient("ds-key", "deepseek-chat", stats)
	c.baseURL = srv.URL

	out, err := c.Generate(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "a summary" {
		t.Errorf("expected %q, got %q", "a summary", out)
	}
	if stats.Snapshot().Count != 1 {
		t.Errorf("expected one latency sample recorded")
	}
}

func TestDeepSeekClientServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewDeepSeekClient("ds-key", "deepseek-chat", nil)
	c.baseURL = srv.URL

	_, err := c.Generate(context.Background(), "hello")
	var retryErr *RetryableError
	if !errors.As(err, &retryErr) {
		t.Fatalf("expected RetryableError, got %v", err)
	}
}
