/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package storefront

import (
	"github.com/MartinBugar/martyx-industries-fe-sub001/apiclient"
	"github.com/MartinBugar/martyx-industries-fe-sub001/httpclient"
	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
	"github.com/MartinBugar/martyx-industries-fe-sub001/respcache"
)

// Opts contains optional parameters for New.
type Opts struct {
	// Logger receives client logs with credentials masked.
	Logger log.FieldLogger

	// DefaultLanguage is the initial value of the Accept-Language header. DefaultLanguage is used if empty.
	DefaultLanguage string

	// UserAgent is sent with every request.
	UserAgent string

	MetricsCollector      apiclient.MetricsCollector
	CacheMetricsCollector respcache.MetricsCollector
	HTTPMetricsCollector  httpclient.MetricsCollector
}

// Storefront wires the API client with the session and the language of the user.
type Storefront struct {
	API      *apiclient.Client
	Tokens   *TokenStore
	Language *LanguageSelector

	Products *Products
	Locales  *Locales
	Auth     *Auth
	Payments *Payments
}

// New creates the API client and all services. Close must be called when it's no longer needed.
func New(cfg *apiclient.Config, opts Opts) (*Storefront, error) {
	tokens := NewTokenStore()
	lang := NewLanguageSelector(opts.DefaultLanguage)
	logger := opts.Logger
	if logger != nil {
		logger = log.NewMaskingLogger(logger, log.NewMasker(log.DefaultMaskingRules))
	}
	api, err := apiclient.New(cfg, apiclient.Opts{
		Logger:                logger,
		MetricsCollector:      opts.MetricsCollector,
		CacheMetricsCollector: opts.CacheMetricsCollector,
		HTTPOpts: httpclient.Opts{
			UserAgent:        opts.UserAgent,
			Collector:        opts.HTTPMetricsCollector,
			AuthProvider:     tokens,
			OnUnauthorized:   tokens.Invalidate,
			LanguageProvider: lang,
		},
	})
	if err != nil {
		return nil, err
	}
	return &Storefront{
		API:      api,
		Tokens:   tokens,
		Language: lang,
		Products: NewProducts(api),
		Locales:  NewLocales(api),
		Auth:     NewAuth(api, tokens),
		Payments: NewPayments(api),
	}, nil
}

// SetLanguage switches the language of the API responses.
// Cached responses are dropped since they are localized.
func (s *Storefront) SetLanguage(lang string) {
	if s.Language.Set(lang) {
		s.API.ClearCache()
	}
}

// Close releases the resources of the API client.
func (s *Storefront) Close() error {
	return s.API.Close()
}
