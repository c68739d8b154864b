/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package log_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
	"github.com/MartinBugar/martyx-industries-fe-sub001/log/logtest"
)

func TestMasker(t *testing.T) {
	masker := log.NewMasker(log.DefaultMaskingRules)
	tests := []struct {
		in   string
		want string
	}{
		{in: "GET /products?category=lamps", want: "GET /products?category=lamps"},
		{in: "Authorization: Bearer abc.def", want: "Authorization: ***"},
		{in: `{"email":"a@b.c","password":"s3\"cret"}`, want: `{"email":"a@b.c","password":"***"}`},
		{in: `{"accessToken": "abc", "user": {}}`, want: `{"accessToken": "***", "user": {}}`},
		{in: "GET /me?token=abc&lang=sk", want: "GET /me?token=***&lang=sk"},
		{in: "access_token=abc refresh_token=def", want: "access_token=*** refresh_token=***"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, masker.Mask(tt.in), tt.in)
	}
}

func TestMaskingLogger(t *testing.T) {
	recorder := logtest.NewRecorder()
	logger := log.NewMaskingLogger(recorder, log.NewMasker(log.DefaultMaskingRules))

	transportErr := fmt.Errorf("Get \"http://shop/me?token=abc\": %w", errors.New("connection refused"))
	logger.With(log.String("url", "/auth/me?token=abc")).Warn("request failed: token=abc", log.Error(transportErr))
	logger.Infof(`sending {"password":"%s"}`, "pwd")
	logger.Info("cache swept", log.Int("removed", 3))

	entry, found := recorder.FindEntry("request failed: token=***")
	require.True(t, found)
	urlField, found := entry.FindField("url")
	require.True(t, found)
	require.Equal(t, "/auth/me?token=***", string(urlField.Bytes))
	errField, found := entry.FindField("error")
	require.True(t, found)
	require.Equal(t, `Get "http://shop/me?token=***": connection refused`, errField.Any.(error).Error())

	_, found = recorder.FindEntry(`sending {"password":"***"}`)
	require.True(t, found)

	entry, found = recorder.FindEntry("cache swept")
	require.True(t, found)
	removed, found := entry.FindField("removed")
	require.True(t, found)
	require.Equal(t, 3, int(removed.Int))
}
