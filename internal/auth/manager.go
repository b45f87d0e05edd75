// Package auth is the client-side session: it drives the mock auth endpoints
// and keeps the token plus serialized user in the local secret store for the
// duration of the session.
package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"parkledger/internal/client"
	"parkledger/internal/entities"
	"parkledger/internal/secrets"
	"parkledger/internal/validation"
)

const (
	tokenKey = "auth_token"
	userKey  = "auth_user"
)

type Manager struct {
	api   *client.AuthClient
	store *secrets.Store
}

func NewManager(api *client.AuthClient, store *secrets.Store) *Manager {
	return &Manager{api: api, store: store}
}

// Token implements client.TokenSource so an API instance can attach the
// session token to its requests.
func (m *Manager) Token() (string, bool) {
	return m.store.GetItem(tokenKey)
}

// CurrentUser returns the persisted user, if a session is active.
func (m *Manager) CurrentUser() (entities.AuthUser, bool) {
	raw, ok := m.store.GetItem(userKey)
	if !ok {
		return entities.AuthUser{}, false
	}
	var u entities.AuthUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return entities.AuthUser{}, false
	}
	return u, true
}

// IsAuthenticated reports whether a token is stored.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Token()
	return ok
}

// Login validates credentials locally, exchanges them for a token and
// persists the session.
func (m *Manager) Login(ctx context.Context, req entities.LoginRequest) (entities.AuthUser, error) {
	if err := validation.Check(req); err != nil {
		return entities.AuthUser{}, err
	}
	resp, err := m.api.Login(ctx, req)
	if err != nil {
		return entities.AuthUser{}, err
	}
	if err := m.saveSession(resp); err != nil {
		return entities.AuthUser{}, err
	}
	return resp.User, nil
}

// Register validates the form and submits it. The account stays unverified
// until VerifyOTP succeeds.
func (m *Manager) Register(ctx context.Context, req entities.RegisterRequest) error {
	if err := validation.Check(req); err != nil {
		return err
	}
	_, err := m.api.Register(ctx, req)
	return err
}

// VerifyOTP confirms the code and persists the fresh session it returns.
func (m *Manager) VerifyOTP(ctx context.Context, req entities.VerifyOTPRequest) (entities.AuthUser, error) {
	if err := validation.Check(req); err != nil {
		return entities.AuthUser{}, err
	}
	resp, err := m.api.VerifyOTP(ctx, req)
	if err != nil {
		return entities.AuthUser{}, err
	}
	if err := m.saveSession(resp); err != nil {
		return entities.AuthUser{}, err
	}
	return resp.User, nil
}

// ResendOTP requests a new code for the phone number.
func (m *Manager) ResendOTP(ctx context.Context, phone string) error {
	_, err := m.api.ResendOTP(ctx, phone)
	return err
}

// Logout clears the persisted session.
func (m *Manager) Logout() error {
	if err := m.store.DeleteItem(tokenKey); err != nil {
		return fmt.Errorf("clearing session token: %w", err)
	}
	if err := m.store.DeleteItem(userKey); err != nil {
		return fmt.Errorf("clearing session user: %w", err)
	}
	return nil
}

func (m *Manager) saveSession(resp entities.AuthResponse) error {
	if resp.Token == "" {
		return fmt.Errorf("auth response carried no token")
	}
	raw, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("encoding session user: %w", err)
	}
	if err := m.store.SetItem(tokenKey, resp.Token); err != nil {
		return fmt.Errorf("persisting session token: %w", err)
	}
	if err := m.store.SetItem(userKey, string(raw)); err != nil {
		return fmt.Errorf("persisting session user: %w", err)
	}
	return nil
}
