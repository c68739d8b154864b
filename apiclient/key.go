/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package apiclient

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const noBodyKeyPart = "-"

// BuildKey returns a request key that identifies the request for deduplication and caching.
// Requests with equal method, resolved URL and serialized body have equal keys.
func BuildKey(method, resolvedURL string, body interface{}) (string, error) {
	data, err := encodeBody(body)
	if err != nil {
		return "", err
	}
	return buildKey(method, resolvedURL, data), nil
}

func buildKey(method, resolvedURL string, body []byte) string {
	bodyPart := noBodyKeyPart
	if body != nil {
		sum := sha256.Sum256(body)
		bodyPart = hex.EncodeToString(sum[:])
	}
	return strings.ToUpper(method) + " " + strconv.Quote(resolvedURL) + " " + bodyPart
}

// encodeBody serializes the request body. Byte slices and strings are taken as is,
// other values are encoded as JSON. Nil means no body.
func encodeBody(body interface{}) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case json.RawMessage:
		return v, nil
	case string:
		return []byte(v), nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode body: %v", ErrInvalidRequest, err)
	}
	return data, nil
}

// ResolveURL joins a relative path to the base URL. Absolute URLs are returned as is.
func ResolveURL(baseURL, target string) string {
	if strings.Contains(target, "://") {
		return target
	}
	if baseURL == "" {
		return target
	}
	if target == "" {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(target, "/")
}
