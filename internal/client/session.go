// Package client implements the browser-side data/session layer: the
// authentication gate and the cached, validated remote state client the shell
// applications read through.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/suitewaste/deskshell/internal/core/domain"
)

// credentials is the durable local copy of a session, the shell's analog of
// browser localStorage. Server-side token validity stays authoritative.
type credentials struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Session is the authentication gate. All window-manager and remote-state
// activity is conditioned on it being authenticated.
type Session struct {
	baseURL  string
	http     *http.Client
	credPath string
	log      zerolog.Logger

	mu        sync.Mutex
	token     string
	user      *domain.User
	loggingIn bool
}

// NewSession creates a gate that persists credentials at credPath. An empty
// credPath defaults to deskshell/credentials.json under the user config dir.
func NewSession(baseURL, credPath string, httpClient *http.Client, log zerolog.Logger) *Session {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if credPath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			credPath = filepath.Join(dir, "deskshell", "credentials.json")
		}
	}
	return &Session{baseURL: baseURL, http: httpClient, credPath: credPath, log: log}
}

type loginRequest struct {
	Pin string `json:"pin"`
}

type loginData struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type loginEnvelope struct {
	Success bool      `json:"success"`
	Data    loginData `json:"data"`
	Error   string    `json:"error"`
}

// Login exchanges a PIN for a token. It reports success as a boolean rather
// than an error: callers re-prompt on false, nothing throws.
func (s *Session) Login(ctx context.Context, pin string) bool {
	s.mu.Lock()
	s.loggingIn = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loggingIn = false
		s.mu.Unlock()
	}()

	body, err := json.Marshal(loginRequest{Pin: pin})
	if err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1/auth/login", bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		s.log.Warn().Err(err).Msg("login request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var env loginEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || !env.Success {
		return false
	}

	s.mu.Lock()
	s.token = env.Data.Token
	user := env.Data.User
	s.user = &user
	s.mu.Unlock()

	s.persist(credentials{Token: env.Data.Token, User: env.Data.User})
	return true
}

// Logout clears the in-memory and persisted credential. Called explicitly by
// the user or forced by any API call that sees an authorization failure.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if s.credPath != "" {
		if err := os.Remove(s.credPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn().Err(err).Msg("failed to remove persisted credentials")
		}
	}
}

// CheckAuth restores the session from the persisted copy without a network
// round-trip. A copy that fails to parse falls back to logout.
func (s *Session) CheckAuth() {
	if s.credPath == "" {
		return
	}
	raw, err := os.ReadFile(s.credPath)
	if err != nil {
		return
	}

	var creds credentials
	if err := json.Unmarshal(raw, &creds); err != nil || creds.Token == "" || creds.User.ID == "" {
		s.log.Warn().Msg("persisted credentials unreadable, logging out")
		s.Logout()
		return
	}

	s.mu.Lock()
	s.token = creds.Token
	user := creds.User
	s.user = &user
	s.mu.Unlock()
}

// IsAuthenticated is true iff user and token were set together.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

// IsLoggingIn reports whether a login call is in flight.
func (s *Session) IsLoggingIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggingIn
}

// Token returns the bearer credential, or "".
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the authenticated user, or nil.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	out := *s.user
	return &out
}

func (s *Session) persist(creds credentials) {
	if s.credPath == "" {
		return
	}
	raw, err := json.Marshal(creds)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.credPath), 0o700); err != nil {
		s.log.Warn().Err(err).Msg("failed to create credentials dir")
		return
	}
	if err := os.WriteFile(s.credPath, raw, 0o600); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist credentials")
	}
}
