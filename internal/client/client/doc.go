// Package client contains the HTTP side of the blogdesk client.
//
// # Overview
//
// The package provides:
//  1. Client, a JSON-over-HTTP caller bound to one base URL. Authenticated
//     calls read a bearer token from a TokenSource and fail fast, before any
//     network I/O, when there is none. Each request carries a fresh
//     X-Request-ID.
//  2. Endpoint wrappers: AuthAPI (/Auth/login, /Auth/register, /Auth/verify)
//     and PostsAPI (/Post CRUD), including the mapping between server field
//     names (description, featuredImageUrl) and models.Post.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the SQLite file and applies embedded goose migrations.
//
// # Error Handling
//
// Every failed call returns an *APIError whose Message is fit for display.
// Kind tells callers what went wrong: KindUnauthenticated (no token),
// KindTransport (no usable response) or KindServer (failure status or a
// {"success": false} body). The sentinels ErrNotAuthenticated,
// ErrUnavailable and ErrUnauthorized match with errors.Is.
//
// The client never retries and never touches session state; callers decide
// what a 401 means.
package client
