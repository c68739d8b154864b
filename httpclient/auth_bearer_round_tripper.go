/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"fmt"
	"net/http"
)

// AuthBearerRoundTripperError is returned in RoundTrip method of AuthBearerRoundTripper
// when the token cannot be obtained.
type AuthBearerRoundTripperError struct {
	Inner error
}

func (e *AuthBearerRoundTripperError) Error() string {
	return fmt.Sprintf("auth bearer round trip: %s", e.Inner.Error())
}

// Unwrap returns the next error in the error chain.
func (e *AuthBearerRoundTripperError) Unwrap() error {
	return e.Inner
}

// AuthProvider provides the access token for bearer authorization.
// An empty token means that the request is sent anonymously.
type AuthProvider interface {
	GetToken(ctx context.Context) (string, error)
}

// AuthProviderFunc is an adapter to allow the use of ordinary functions as AuthProvider.
type AuthProviderFunc func(ctx context.Context) (string, error)

// GetToken implements AuthProvider.
func (f AuthProviderFunc) GetToken(ctx context.Context) (string, error) {
	return f(ctx)
}

// AuthBearerRoundTripperOpts is options for AuthBearerRoundTripper.
type AuthBearerRoundTripperOpts struct {
	// OnUnauthorized is called when a request sent with a token gets 401 response.
	// It's a place to drop the expired session.
	OnUnauthorized func(ctx context.Context, token string)
}

// AuthBearerRoundTripper implements http.RoundTripper interface
// and sets Authorization HTTP header in all outgoing requests.
type AuthBearerRoundTripper struct {
	Delegate     http.RoundTripper
	AuthProvider AuthProvider
	opts         AuthBearerRoundTripperOpts
}

// NewAuthBearerRoundTripper creates a new AuthBearerRoundTripper.
func NewAuthBearerRoundTripper(delegate http.RoundTripper, authProvider AuthProvider) *AuthBearerRoundTripper {
	return NewAuthBearerRoundTripperWithOpts(delegate, authProvider, AuthBearerRoundTripperOpts{})
}

// NewAuthBearerRoundTripperWithOpts creates a new AuthBearerRoundTripper with options.
func NewAuthBearerRoundTripperWithOpts(
	delegate http.RoundTripper, authProvider AuthProvider, opts AuthBearerRoundTripperOpts,
) *AuthBearerRoundTripper {
	return &AuthBearerRoundTripper{Delegate: delegate, AuthProvider: authProvider, opts: opts}
}

// RoundTrip executes a single HTTP transaction, returning a Response for the provided Request.
func (rt *AuthBearerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") != "" {
		return rt.Delegate.RoundTrip(req)
	}
	token, err := rt.AuthProvider.GetToken(req.Context())
	if err != nil {
		if req.Body != nil {
			_ = req.Body.Close() // Per RoundTripper contract.
		}
		return nil, &AuthBearerRoundTripperError{Inner: err}
	}
	if token == "" {
		return rt.Delegate.RoundTrip(req)
	}

	req = req.Clone(req.Context()) // Per RoundTripper contract.
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := rt.Delegate.RoundTrip(req)
	if err == nil && resp.StatusCode == http.StatusUnauthorized && rt.opts.OnUnauthorized != nil {
		rt.opts.OnUnauthorized(req.Context(), token)
	}
	return resp, err
}
