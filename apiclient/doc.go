/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package apiclient provides a JSON-over-HTTP client for the storefront backend API.
//
// Every call goes through the same orchestration:
//   - a request key is built from the method, the resolved URL and the serialized body;
//   - GET requests with enabled caching are served from the response cache while the entry is fresh;
//   - concurrent identical requests join the one that is already in flight instead of issuing a new one;
//   - the network call is retried with doubling backoff when it fails with a transport error,
//     a timeout or a 5xx response.
//
// Once dispatched, a network call runs to completion even if every waiting caller has gone away,
// so that its result still reaches the cache and the other waiters.
//
// The Client owns a background worker that sweeps expired cache entries. Close stops it.
package apiclient
