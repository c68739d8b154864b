/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package httpclient

import (
	"context"
	"net/http"
)

// LanguageProvider provides the language of the current user (e.g. "en", "sk").
type LanguageProvider interface {
	Language(ctx context.Context) string
}

// LanguageProviderFunc is an adapter to allow the use of ordinary functions as LanguageProvider.
type LanguageProviderFunc func(ctx context.Context) string

// Language implements LanguageProvider.
func (f LanguageProviderFunc) Language(ctx context.Context) string {
	return f(ctx)
}

// LanguageRoundTripper sets Accept-Language HTTP header to requests that don't have it.
type LanguageRoundTripper struct {
	Delegate         http.RoundTripper
	LanguageProvider LanguageProvider
}

// NewLanguageRoundTripper creates a new LanguageRoundTripper.
func NewLanguageRoundTripper(delegate http.RoundTripper, provider LanguageProvider) *LanguageRoundTripper {
	return &LanguageRoundTripper{Delegate: delegate, LanguageProvider: provider}
}

// RoundTrip executes a single HTTP transaction, returning a Response for the provided Request.
func (rt *LanguageRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Language") != "" {
		return rt.Delegate.RoundTrip(req)
	}
	lang := rt.LanguageProvider.Language(req.Context())
	if lang == "" {
		return rt.Delegate.RoundTrip(req)
	}
	req = req.Clone(req.Context()) // Per RoundTripper contract.
	req.Header.Set("Accept-Language", lang)
	return rt.Delegate.RoundTrip(req)
}
