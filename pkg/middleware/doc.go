// Package middleware provides the bearer-token authentication gate placed
// in front of protected routes.
//
// The status code split is deliberate and load-bearing for API clients:
// a missing credential is 401 ("Access token required") while a present but
// invalid, expired or revoked credential is 403 ("Invalid or expired
// token"). On success the verified claims are attached to the request
// context; the middleware never touches the user store.
package middleware
