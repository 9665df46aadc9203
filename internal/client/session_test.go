package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/suitewaste/deskshell/internal/core/domain"
)

func loginServer(t *testing.T, pin string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Pin string `json:"pin"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		if req.Pin != pin {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Invalid PIN"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"token": "tok123",
				"user":  domain.User{ID: "op1", Name: "Jacob Zuma", Role: domain.RoleOperator},
			},
		})
	}))
}

func tempCredPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "credentials.json")
}

func TestSession_Login_Success(t *testing.T) {
	srv := loginServer(t, "1234")
	defer srv.Close()

	s := NewSession(srv.URL, tempCredPath(t), srv.Client(), zerolog.Nop())
	if !s.Login(context.Background(), "1234") {
		t.Fatal("expected login to succeed")
	}
	if !s.IsAuthenticated() {
		t.Error("expected authenticated after login")
	}
	if s.Token() != "tok123" {
		t.Errorf("unexpected token %q", s.Token())
	}
	if u := s.User(); u == nil || u.ID != "op1" {
		t.Errorf("unexpected user %+v", u)
	}
}

func TestSession_Login_WrongPinReturnsFalse(t *testing.T) {
	srv := loginServer(t, "1234")
	defer srv.Close()

	s := NewSession(srv.URL, tempCredPath(t), srv.Client(), zerolog.Nop())
	if s.Login(context.Background(), "0000") {
		t.Fatal("expected login to fail")
	}
	if s.IsAuthenticated() {
		t.Error("expected unauthenticated after failed login")
	}
}

func TestSession_Login_ServerUnreachableReturnsFalse(t *testing.T) {
	s := NewSession("http://127.0.0.1:1", tempCredPath(t), nil, zerolog.Nop())
	if s.Login(context.Background(), "1234") {
		t.Fatal("expected login to fail when the server is unreachable")
	}
}

func TestSession_CheckAuth_RestoresPersistedCredentials(t *testing.T) {
	srv := loginServer(t, "1234")
	defer srv.Close()

	credPath := tempCredPath(t)
	first := NewSession(srv.URL, credPath, srv.Client(), zerolog.Nop())
	if !first.Login(context.Background(), "1234") {
		t.Fatal("login failed")
	}

	// A fresh gate restores the session from disk without a network call.
	second := NewSession(srv.URL, credPath, srv.Client(), zerolog.Nop())
	if second.IsAuthenticated() {
		t.Fatal("expected fresh gate to start unauthenticated")
	}
	second.CheckAuth()
	if !second.IsAuthenticated() {
		t.Error("expected CheckAuth to restore the session")
	}
	if second.Token() != "tok123" {
		t.Errorf("unexpected restored token %q", second.Token())
	}
}

func TestSession_CheckAuth_CorruptFileLogsOut(t *testing.T) {
	credPath := tempCredPath(t)
	if err := os.WriteFile(credPath, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := NewSession("http://unused", credPath, nil, zerolog.Nop())
	s.CheckAuth()

	if s.IsAuthenticated() {
		t.Error("expected corrupt credentials to leave the gate logged out")
	}
	if _, err := os.Stat(credPath); !os.IsNotExist(err) {
		t.Error("expected corrupt credentials file removed")
	}
}

func TestSession_Logout_ClearsMemoryAndDisk(t *testing.T) {
	srv := loginServer(t, "1234")
	defer srv.Close()

	credPath := tempCredPath(t)
	s := NewSession(srv.URL, credPath, srv.Client(), zerolog.Nop())
	if !s.Login(context.Background(), "1234") {
		t.Fatal("login failed")
	}

	s.Logout()
	if s.IsAuthenticated() {
		t.Error("expected unauthenticated after logout")
	}
	if s.Token() != "" || s.User() != nil {
		t.Error("expected credentials cleared")
	}
	if _, err := os.Stat(credPath); !os.IsNotExist(err) {
		t.Error("expected persisted credentials removed")
	}
}
