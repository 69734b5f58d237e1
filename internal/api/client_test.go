package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithTimeout(2 * time.Second)}, opts...)
	return New(srv.URL, opts...), srv
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]Document{})
	}), WithTokenSource(TokenSourceFunc(func() string { return "tok-123" })))

	if _, err := client.ListDocuments(context.Background(), ""); err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestNoTokenMeansNoAuthHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(Token{AccessToken: "t", TokenType: "bearer"})
	}), WithTokenSource(TokenSourceFunc(func() string { return "" })))

	if _, err := client.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header, got %q", gotAuth)
	}
}

func TestUnauthorizedFiresHookOncePerResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	calls := 0
	client.onUnauthorized = func() { calls++ }

	_, err := client.ListDocuments(context.Background(), "")
	if !IsUnauthorized(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 unauthorized callback, got %d", calls)
	}

	// A second 401 fires the hook again: once per response, not once ever.
	_, _ = client.ListTasks(context.Background(), "")
	if calls != 2 {
		t.Fatalf("expected 2 unauthorized callbacks, got %d", calls)
	}
}

func TestUnreachableBackendIsDistinctFromAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // nothing listening anymore

	client := New(url, WithTimeout(time.Second))
	_, err := client.ListDocuments(context.Background(), "")
	if !IsUnreachable(err) {
		t.Fatalf("expected UnreachableError, got %v", err)
	}
	if IsUnauthorized(err) {
		t.Fatalf("unreachable must not classify as auth failure")
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		detail string
		check  func(error) bool
	}{
		{"bad request", http.StatusBadRequest, "Invalid credentials", func(err error) bool {
			var e *BadRequestError
			return errors.As(err, &e)
		}},
		{"not found", http.StatusNotFound, "Task not found", IsNotFound},
		{"validation", http.StatusUnprocessableEntity, "field required", func(err error) bool {
			var e *BadRequestError
			return errors.As(err, &e)
		}},
		{"server error", http.StatusInternalServerError, "Error uploading document", func(err error) bool {
			var e *ServerError
			return errors.As(err, &e)
		}},
		{"rate limited", http.StatusTooManyRequests, "slow down", func(err error) bool {
			var e *RateLimitError
			return errors.As(err, &e)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": tt.detail})
			}))
			_, err := client.ListTasks(context.Background(), "")
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Fatalf("wrong error type: %v", err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected wrapped APIError, got %v", err)
			}
			if apiErr.Detail != tt.detail {
				t.Fatalf("expected detail %q, got %q", tt.detail, apiErr.Detail)
			}
			if apiErr.Op != "ListTasks" {
				t.Fatalf("expected op ListTasks, got %q", apiErr.Op)
			}
		})
	}
}

func TestRateLimitRetryAfter(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "rate limited"})
	}))
	_, err := client.ListDocuments(context.Background(), "")
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Fatalf("expected 7s retry-after, got %v", rl.RetryAfter)
	}
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string detail", `{"detail":"Email already registered"}`, "Email already registered"},
		{"structured detail", `{"detail":[{"loc":["body","email"]}]}`, `[{"loc":["body","email"]}]`},
		{"no detail", `oops`, "oops"},
		{"empty", ``, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractDetail([]byte(tt.body)); got != tt.want {
				t.Fatalf("extractDetail(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}
