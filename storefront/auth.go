/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package storefront

import (
	"context"
	"sync"

	"github.com/MartinBugar/martyx-industries-fe-sub001/apiclient"
	"github.com/MartinBugar/martyx-industries-fe-sub001/httpclient"
)

const authRequestType = "auth"

// TokenStore keeps the access token of the current session in memory.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

var _ httpclient.AuthProvider = (*TokenStore)(nil)

// NewTokenStore creates an empty TokenStore.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// GetToken implements httpclient.AuthProvider. Empty token means an anonymous session.
func (s *TokenStore) GetToken(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// Set stores the token.
func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Clear drops the token.
func (s *TokenStore) Clear() {
	s.Set("")
}

// Invalidate drops the token if it's still the one the server has rejected.
func (s *TokenStore) Invalidate(_ context.Context, token string) {
	s.mu.Lock()
	if s.token == token {
		s.token = ""
	}
	s.mu.Unlock()
}

// Credentials are used for logging in.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the account of the logged in user.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Auth manages the user session.
type Auth struct {
	api    *apiclient.Client
	tokens *TokenStore
}

// NewAuth creates a new Auth service.
func NewAuth(api *apiclient.Client, tokens *TokenStore) *Auth {
	return &Auth{api: api, tokens: tokens}
}

// Login authenticates the user and starts the session.
func (a *Auth) Login(ctx context.Context, creds Credentials) (*User, error) {
	var resp loginResponse
	if err := a.api.Post(ctx, "/auth/login", creds, &resp,
		apiclient.WithRetry(false), apiclient.WithRequestType(authRequestType)); err != nil {
		return nil, err
	}
	a.tokens.Set(resp.Token)
	// Anonymous responses must not be served to the user.
	a.api.ClearCache()
	return &resp.User, nil
}

// Logout ends the session. The local session is dropped even if the server call fails.
func (a *Auth) Logout(ctx context.Context) error {
	err := a.api.Post(ctx, "/auth/logout", nil, nil,
		apiclient.WithRetry(false), apiclient.WithRequestType(authRequestType))
	a.tokens.Clear()
	a.api.ClearCache()
	return err
}

// Me returns the current user.
func (a *Auth) Me(ctx context.Context) (*User, error) {
	var user User
	if err := a.api.Get(ctx, "/auth/me", &user, apiclient.WithRequestType(authRequestType)); err != nil {
		return nil, err
	}
	return &user, nil
}
