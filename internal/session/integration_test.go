package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hrnexus/hrnexus-cli/internal/api"
)

// A 401 from any endpoint must clear the whole stored session (token
// and organization id) through the client's unauthorized hook.
func TestUnauthorizedResponseClearsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	sess, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"organization_id": "org-9"})
	signed, err := tok.SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := sess.SaveToken(signed); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	}))
	defer srv.Close()

	hookCalls := 0
	client := api.New(srv.URL,
		api.WithTokenSource(sess),
		api.WithOnUnauthorized(func() {
			hookCalls++
			_ = sess.Clear()
		}),
	)

	_, err = client.ListDocuments(context.Background(), "")
	if !api.IsUnauthorized(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if hookCalls != 1 {
		t.Fatalf("expected exactly one unauthorized hook call, got %d", hookCalls)
	}
	if sess.Token() != "" || sess.OrganizationID() != "" {
		t.Fatal("401 must clear both the token and the organization id")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("401 must remove the session file")
	}
}
