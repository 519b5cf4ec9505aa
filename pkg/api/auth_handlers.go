package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/shelfstack/catalog/pkg/auth"
	"github.com/shelfstack/catalog/pkg/httputil"
	"github.com/shelfstack/catalog/pkg/middleware"
	"github.com/shelfstack/catalog/pkg/observability"
	"github.com/shelfstack/catalog/pkg/storage"
)

// AuthHandlers handles registration, login and logout
type AuthHandlers struct {
	users    UserStore
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenService
	denylist *auth.TokenDenylist // nil when Redis is not configured
	logger   *observability.Logger
	metrics  *observability.Metrics
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(users UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenService, denylist *auth.TokenDenylist, logger *observability.Logger, metrics *observability.Metrics) *AuthHandlers {
	return &AuthHandlers{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		denylist: denylist,
		logger:   logger,
		metrics:  metrics,
	}
}

// RegisterPublicRoutes registers the unauthenticated auth routes
func (h *AuthHandlers) RegisterPublicRoutes(router *mux.Router) {
	router.HandleFunc("/register", h.register).Methods(http.MethodPost)
	router.HandleFunc("/login", h.login).Methods(http.MethodPost)
}

// userPayload is the outward shape of a user in auth responses
type userPayload struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    userPayload `json:"user"`
}

// register handles POST /register
func (h *AuthHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if msg, ok := validateRegistration(&req); !ok {
		httputil.WriteValidationError(w, msg)
		return
	}

	// Advisory pre-check; the unique constraints remain the source of truth
	// under concurrent identical registrations.
	taken, err := h.users.UsernameOrEmailTaken(r.Context(), req.Username, req.Email)
	if err != nil {
		h.logger.WithError(err).Error("registration pre-check failed")
		httputil.WriteInternalError(w, "Server error during registration")
		return
	}
	if taken {
		httputil.WriteValidationError(w, "Username or email already exists")
		return
	}

	digest, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.WithError(err).Error("password hashing failed")
		httputil.WriteInternalError(w, "Server error during registration")
		return
	}

	user := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: digest,
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			httputil.WriteValidationError(w, "Username or email already exists")
			return
		}
		h.logger.WithError(err).Error("user creation failed")
		httputil.WriteInternalError(w, "Server error during registration")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.logger.WithError(err).Error("token issuance failed")
		httputil.WriteInternalError(w, "Server error during registration")
		return
	}

	h.metrics.RegistrationsTotal.Inc()
	h.logger.WithField("user_id", user.ID).Info("user registered")

	httputil.WriteCreated(w, authResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    userPayload{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

// login handles POST /login
func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if msg, ok := validateLogin(&req); !ok {
		httputil.WriteValidationError(w, msg)
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.metrics.LoginsTotal.WithLabelValues("failure").Inc()
			httputil.WriteUnauthorized(w, "Invalid credentials")
			return
		}
		h.logger.WithError(err).Error("login lookup failed")
		httputil.WriteInternalError(w, "Server error during login")
		return
	}

	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		h.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		httputil.WriteUnauthorized(w, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		h.logger.WithError(err).Error("token issuance failed")
		httputil.WriteInternalError(w, "Server error during login")
		return
	}

	h.metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.logger.WithField("user_id", user.ID).Info("user logged in")

	httputil.WriteSuccess(w, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    userPayload{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

// logout handles POST /logout (protected). Without a denylist the token
// simply remains valid until expiry and logout is client-side only.
func (h *AuthHandlers) logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		httputil.WriteUnauthorized(w, "Access token required")
		return
	}

	if h.denylist != nil {
		token := middleware.BearerToken(r)
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := h.denylist.Revoke(r.Context(), token, ttl); err != nil {
			h.logger.WithError(err).Error("token revocation failed")
			httputil.WriteInternalError(w, "Server error during logout")
			return
		}
		h.metrics.TokensRevoked.Inc()
	}

	httputil.WriteSuccess(w, map[string]string{"message": "Logged out successfully"})
}
