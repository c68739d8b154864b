/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/MartinBugar/martyx-industries-fe-sub001/apiclient"
	"github.com/MartinBugar/martyx-industries-fe-sub001/log/logtest"
)

// fakeBackend emulates the storefront backend API.
type fakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	requests []*http.Request
	hits     map[string]*atomic.Int32

	paymentsStatus int
}

func newFakeBackend(t *testing.T) *fakeBackend {
	b := &fakeBackend{hits: map[string]*atomic.Int32{}, paymentsStatus: http.StatusCreated}
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, http.StatusOK, ProductList{
			Items: []Product{{ID: "lamp-1", Name: "Lamp " + r.Header.Get("Accept-Language"), Category: r.URL.Query().Get("category")}},
			Total: 1,
		})
	})
	mux.HandleFunc("/products/", func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/products/missing" {
			writeJSON(rw, http.StatusNotFound, map[string]string{"code": "PRODUCT_NOT_FOUND"})
			return
		}
		writeJSON(rw, http.StatusOK, Product{ID: r.URL.Path[len("/products/"):], Price: 4990, Currency: "EUR"})
	})
	mux.HandleFunc("/locales/", func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, http.StatusOK, map[string]interface{}{"cart": map[string]string{"title": "Košík"}})
	})
	mux.HandleFunc("/auth/login", func(rw http.ResponseWriter, r *http.Request) {
		var creds Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret" {
			writeJSON(rw, http.StatusUnauthorized, map[string]string{"code": "INVALID_CREDENTIALS"})
			return
		}
		writeJSON(rw, http.StatusOK, loginResponse{Token: "tkn-1", User: User{ID: "u-1", Email: creds.Email}})
	})
	mux.HandleFunc("/auth/logout", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/auth/me", func(rw http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tkn-1" {
			writeJSON(rw, http.StatusUnauthorized, map[string]string{"code": "SESSION_EXPIRED"})
			return
		}
		writeJSON(rw, http.StatusOK, User{ID: "u-1", Email: "jana@example.com"})
	})
	mux.HandleFunc("/payments/paypal/orders", func(rw http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		status := b.paymentsStatus
		b.mu.Unlock()
		writeJSON(rw, status, PayPalOrder{ID: "PP-1", Status: "CREATED"})
	})
	mux.HandleFunc("/payments/paypal/orders/PP-1/capture", func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, http.StatusOK, PayPalCapture{OrderID: "PP-1", CaptureID: "CAP-1", Status: "COMPLETED"})
	})

	b.Server = httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Clone(context.Background()))
		counter, ok := b.hits[r.URL.Path]
		if !ok {
			counter = atomic.NewInt32(0)
			b.hits[r.URL.Path] = counter
		}
		b.mu.Unlock()
		counter.Inc()
		mux.ServeHTTP(rw, r)
	}))
	t.Cleanup(b.Close)
	return b
}

func (b *fakeBackend) hitCount(path string) int32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.hits[path]; ok {
		return c.Load()
	}
	return 0
}

func (b *fakeBackend) lastRequest() *http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[len(b.requests)-1]
}

func writeJSON(rw http.ResponseWriter, status int, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func newTestStorefront(t *testing.T, backend *fakeBackend) *Storefront {
	cfg := apiclient.NewDefaultConfig()
	cfg.BaseURL = backend.URL
	cfg.Retry.Delay = time.Millisecond
	sf, err := New(cfg, Opts{UserAgent: "storefront-test/1.0", DefaultLanguage: "sk"})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, sf.Close()) })
	return sf
}

func TestProducts(t *testing.T) {
	backend := newFakeBackend(t)
	sf := newTestStorefront(t, backend)
	ctx := context.Background()

	list, err := sf.Products.List(ctx, ProductFilter{Category: "lamps", PageSize: 24})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	require.Equal(t, "lamps", list.Items[0].Category)
	require.Equal(t, "Lamp sk", list.Items[0].Name)
	require.Equal(t, "category=lamps&pageSize=24", backend.lastRequest().URL.RawQuery)
	require.Equal(t, "storefront-test/1.0", backend.lastRequest().Header.Get("User-Agent"))

	_, err = sf.Products.List(ctx, ProductFilter{Category: "lamps", PageSize: 24})
	require.NoError(t, err)
	require.Equal(t, int32(1), backend.hitCount("/products"), "product list must be cached")

	sf.SetLanguage("en")
	list, err = sf.Products.List(ctx, ProductFilter{Category: "lamps", PageSize: 24})
	require.NoError(t, err)
	require.Equal(t, "Lamp en", list.Items[0].Name, "language change must drop localized responses")
	require.Equal(t, int32(2), backend.hitCount("/products"))

	product, err := sf.Products.Get(ctx, "lamp-1")
	require.NoError(t, err)
	require.Equal(t, &Product{ID: "lamp-1", Price: 4990, Currency: "EUR"}, product)

	_, err = sf.Products.Get(ctx, "missing")
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	var payload map[string]string
	require.NoError(t, apiErr.DecodeBody(&payload))
	require.Equal(t, "PRODUCT_NOT_FOUND", payload["code"])
	require.Equal(t, int32(1), backend.hitCount("/products/missing"), "4xx must not be retried")
}

func TestSetLanguageDuringRequest(t *testing.T) {
	var hits atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if hits.Inc() == 1 {
			close(started)
			<-release
		}
		writeJSON(rw, http.StatusOK, ProductList{Items: []Product{{Name: "Lamp " + r.Header.Get("Accept-Language")}}, Total: 1})
	}))
	defer server.Close()

	cfg := apiclient.NewDefaultConfig()
	cfg.BaseURL = server.URL
	sf, err := New(cfg, Opts{DefaultLanguage: "en"})
	require.NoError(t, err)
	defer func() { require.NoError(t, sf.Close()) }()
	ctx := context.Background()

	enDone := make(chan error, 1)
	go func() {
		_, listErr := sf.Products.List(ctx, ProductFilter{})
		enDone <- listErr
	}()
	<-started
	sf.SetLanguage("de")
	close(release)
	require.NoError(t, <-enDone)

	list, err := sf.Products.List(ctx, ProductFilter{})
	require.NoError(t, err)
	require.Equal(t, "Lamp de", list.Items[0].Name, "response in the old language must not be served after the switch")
	require.Equal(t, int32(2), hits.Load())
}

func TestLocales(t *testing.T) {
	backend := newFakeBackend(t)
	sf := newTestStorefront(t, backend)

	require.Equal(t, "sk", sf.Language.Get())
	tr, err := sf.Locales.Translations(context.Background(), "sk")
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"title": "Košík"}, tr["cart"])

	_, err = sf.Locales.Translations(context.Background(), "sk")
	require.NoError(t, err)
	require.Equal(t, int32(1), backend.hitCount("/locales/sk"))

	require.False(t, sf.Language.Set("sk"))
	require.True(t, sf.Language.Set(""))
	require.Equal(t, DefaultLanguage, sf.Language.Get())
}

func TestAuth(t *testing.T) {
	backend := newFakeBackend(t)
	sf := newTestStorefront(t, backend)
	ctx := context.Background()

	_, err := sf.Auth.Login(ctx, Credentials{Email: "jana@example.com", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, apiclient.StatusCode(err))
	token, _ := sf.Tokens.GetToken(ctx)
	require.Empty(t, token)

	user, err := sf.Auth.Login(ctx, Credentials{Email: "jana@example.com", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, "u-1", user.ID)

	me, err := sf.Auth.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "jana@example.com", me.Email)
	require.Equal(t, "Bearer tkn-1", backend.lastRequest().Header.Get("Authorization"))

	_, err = sf.Products.Get(ctx, "lamp-1")
	require.NoError(t, err)
	require.NoError(t, sf.Auth.Logout(ctx))
	token, _ = sf.Tokens.GetToken(ctx)
	require.Empty(t, token)

	_, err = sf.Products.Get(ctx, "lamp-1")
	require.NoError(t, err)
	require.Equal(t, int32(2), backend.hitCount("/products/lamp-1"), "logout must clear the cache")

	_, err = sf.Auth.Me(ctx)
	require.Equal(t, http.StatusUnauthorized, apiclient.StatusCode(err))
}

func TestTokenStoreInvalidate(t *testing.T) {
	backend := newFakeBackend(t)
	sf := newTestStorefront(t, backend)
	ctx := context.Background()

	sf.Tokens.Set("expired")
	_, err := sf.Auth.Me(ctx)
	require.Equal(t, http.StatusUnauthorized, apiclient.StatusCode(err))
	token, _ := sf.Tokens.GetToken(ctx)
	require.Empty(t, token, "rejected token must be dropped")

	sf.Tokens.Set("fresh")
	sf.Tokens.Invalidate(ctx, "expired")
	token, _ = sf.Tokens.GetToken(ctx)
	require.Equal(t, "fresh", token, "newer token must survive a late rejection of the old one")
}

func TestPayments(t *testing.T) {
	backend := newFakeBackend(t)
	sf := newTestStorefront(t, backend)
	ctx := context.Background()

	cart := Cart{Items: []CartItem{{ProductID: "lamp-1", Quantity: 2}}, Currency: "EUR"}
	order, err := sf.Payments.CreatePayPalOrder(ctx, cart)
	require.NoError(t, err)
	require.Equal(t, "PP-1", order.ID)

	capture, err := sf.Payments.CapturePayPalOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, "COMPLETED", capture.Status)

	backend.mu.Lock()
	backend.paymentsStatus = http.StatusBadGateway
	backend.mu.Unlock()
	_, err = sf.Payments.CreatePayPalOrder(ctx, cart)
	require.Equal(t, http.StatusBadGateway, apiclient.StatusCode(err))
	require.Equal(t, int32(2), backend.hitCount("/payments/paypal/orders"), "payments must not be retried")
}

func TestLoggerMasksCredentials(t *testing.T) {
	backend := newFakeBackend(t)
	cfg := apiclient.NewDefaultConfig()
	cfg.BaseURL = backend.URL
	recorder := logtest.NewRecorder()
	sf, err := New(cfg, Opts{Logger: recorder})
	require.NoError(t, err)
	defer func() { require.NoError(t, sf.Close()) }()

	err = sf.API.Get(context.Background(), "/unknown?token=secret", nil)
	require.Error(t, err)

	entry, found := recorder.FindEntry("request failed")
	require.True(t, found)
	urlField, found := entry.FindField("url")
	require.True(t, found)
	require.Equal(t, backend.URL+"/unknown?token=***", string(urlField.Bytes))
	for _, e := range recorder.Entries() {
		require.NotContains(t, e.Text, "secret")
	}
}
