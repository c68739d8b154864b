/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package storefront

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/atomic"

	"github.com/MartinBugar/martyx-industries-fe-sub001/apiclient"
	"github.com/MartinBugar/martyx-industries-fe-sub001/httpclient"
)

// DefaultLanguage is used when no language is selected.
const DefaultLanguage = "en"

const (
	localesRequestType = "locales"
	localesCacheTTL    = time.Hour
)

// LanguageSelector holds the current language of the user.
type LanguageSelector struct {
	lang atomic.String
}

var _ httpclient.LanguageProvider = (*LanguageSelector)(nil)

// NewLanguageSelector creates a new LanguageSelector.
func NewLanguageSelector(lang string) *LanguageSelector {
	if lang == "" {
		lang = DefaultLanguage
	}
	s := &LanguageSelector{}
	s.lang.Store(lang)
	return s
}

// Set changes the current language and reports whether it has been changed.
func (s *LanguageSelector) Set(lang string) bool {
	if lang == "" {
		lang = DefaultLanguage
	}
	return s.lang.Swap(lang) != lang
}

// Get returns the current language.
func (s *LanguageSelector) Get() string {
	return s.lang.Load()
}

// Language implements httpclient.LanguageProvider.
func (s *LanguageSelector) Language(context.Context) string {
	return s.lang.Load()
}

// Translations is a tree of translated messages.
type Translations map[string]interface{}

// Locales loads translation resources.
type Locales struct {
	api *apiclient.Client
}

// NewLocales creates a new Locales service.
func NewLocales(api *apiclient.Client) *Locales {
	return &Locales{api: api}
}

// Translations returns translations for the language. They are cached for an hour.
func (l *Locales) Translations(ctx context.Context, lang string) (Translations, error) {
	var tr Translations
	if err := l.api.Get(ctx, "/locales/"+url.PathEscape(lang), &tr,
		apiclient.WithCacheTTL(localesCacheTTL), apiclient.WithRequestType(localesRequestType)); err != nil {
		return nil, err
	}
	return tr, nil
}
