package middleware

import (
	"net/http"
	"strings"

	"github.com/shelfstack/catalog/pkg/auth"
	"github.com/shelfstack/catalog/pkg/contextkeys"
	"github.com/shelfstack/catalog/pkg/httputil"
	"github.com/shelfstack/catalog/pkg/observability"
)

const (
	msgTokenRequired = "Access token required"
	msgTokenInvalid  = "Invalid or expired token"
)

// AuthMiddleware authenticates requests via the Authorization header
type AuthMiddleware struct {
	tokens   *auth.TokenService
	denylist *auth.TokenDenylist // nil when Redis is not configured
	logger   *observability.Logger
}

// NewAuthMiddleware creates the authentication middleware. denylist may be
// nil; revocation checks are then skipped and tokens stay valid until expiry.
func NewAuthMiddleware(tokens *auth.TokenService, denylist *auth.TokenDenylist, logger *observability.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		denylist: denylist,
		logger:   logger,
	}
}

// Handler wraps an HTTP handler with authentication
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			httputil.WriteUnauthorized(w, msgTokenRequired)
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			m.logger.WithError(err).WithField("path", r.URL.Path).Debug("token rejected")
			httputil.WriteForbidden(w, msgTokenInvalid)
			return
		}

		if m.denylist != nil {
			revoked, err := m.denylist.IsRevoked(r.Context(), token)
			if err != nil {
				// Redis being down must not lock every caller out; log and
				// fall back to signature-and-expiry validity.
				m.logger.WithError(err).Warn("denylist check failed, skipping")
			} else if revoked {
				httputil.WriteForbidden(w, msgTokenInvalid)
				return
			}
		}

		ctx := contextkeys.WithClaims(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the token from the Authorization header.
// The scheme word is ignored, matching the long-standing wire behavior:
// the credential is whatever follows the first space.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetClaims extracts verified token claims from the request context.
// Returns nil when the request did not pass through the auth middleware.
func GetClaims(r *http.Request) *auth.Claims {
	claims, ok := r.Context().Value(contextkeys.ClaimsKey).(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}
