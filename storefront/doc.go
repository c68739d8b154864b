/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package storefront provides typed services for the storefront backend API
// (products, locales, authentication and PayPal payments) on top of apiclient.Client.
package storefront
