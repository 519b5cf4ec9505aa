// Package auth provides password hashing and session token management for
// the catalog service.
//
// # Overview
//
// Authentication is stateless: a successful registration or login issues a
// signed, expiring JWT carrying the user's identity claims. Validity is
// determined solely by signature and expiry; there is no server-side session
// store. An optional Redis-backed denylist supports logout-side invalidation
// when stronger semantics are wanted.
//
// # Password Hashing
//
//	hasher := auth.NewPasswordHasher(auth.DefaultBcryptCost)
//	digest, err := hasher.Hash("s3cret-password")
//	ok := hasher.Verify("s3cret-password", digest)
//
// Digests use bcrypt with a randomized salt and an adaptive cost factor.
// Plaintext and digest never leave this boundary: they are not logged and
// not serialized in API responses.
//
// # Session Tokens
//
//	tokens, err := auth.NewTokenService(secret, 24*time.Hour)
//	signed, err := tokens.Issue(user.ID, user.Username)
//	claims, err := tokens.Verify(signed)
//
// Tokens are HMAC-SHA256 signed JWTs with a fixed expiry from issuance.
// There is no refresh mechanism; expiry forces re-login. The signing secret
// is a required startup configuration value with no default.
//
// Verify returns one of three sentinel errors so callers can distinguish
// failure modes: ErrTokenExpired, ErrTokenSignature, ErrTokenMalformed.
//
// # Token Denylist
//
// When Redis is configured, logout places the SHA-256 hash of the token on
// a denylist keyed with a TTL equal to the token's remaining validity. The
// auth middleware consults the denylist after signature verification.
//
//	denylist := auth.NewTokenDenylist(redisClient)
//	err := denylist.Revoke(ctx, signed, time.Until(claims.ExpiresAt.Time))
//
// # Related Packages
//
//   - pkg/middleware: HTTP bearer-token authentication middleware
//   - pkg/contextkeys: context key for verified claims
package auth
