/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package respcache provides storages for API response payloads keyed by request keys.
//
// Cache is an in-memory LRU storage where every entry has its own expiration time.
// Expired entries are removed lazily on access and in bulk by Sweep,
// which is supposed to be called periodically by the owner of the cache.
//
// RedisCache keeps payloads in Redis and relies on the native key expiration,
// so several client processes may share cached responses.
package respcache
