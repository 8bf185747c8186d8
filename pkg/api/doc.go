// Package api is a typed client for the spatial cloud platform's HTTP API.
//
// The client covers the three endpoint groups the admin dashboard uses:
//
//   - auth: login, registration and the current principal
//   - admin: users, API keys and platform statistics
//   - spatial: spaces, anchors, hierarchy and proximity search
//
// Requests and responses are JSON. Every request carries a bearer token
// obtained from a [TokenSource], typically the CLI's stored session.
//
// # Errors
//
// Failures are returned as *errors.Error values from
// [github.com/SpatialOS-Platform/spatial-os-dashboard/pkg/errors] with a code
// derived from the HTTP status. The message is taken from the response's
// "error" or "details" field when the server provides one.
//
// # Retries and caching
//
// Idempotent GET requests are retried on network errors, 429 and 5xx
// responses. Writes are sent exactly once. When a cache is configured with
// [WithCache], the space listing and single-space lookups are served from it
// until their TTL expires; writes that change spaces invalidate those entries.
// Anchor lists are never cached.
package api
