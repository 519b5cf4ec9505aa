package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/shelfstack/catalog/pkg/api"
	"github.com/shelfstack/catalog/pkg/observability"
	"github.com/shelfstack/catalog/pkg/storage"
)

// UserStore implements api.UserStore on PostgreSQL
type UserStore struct {
	db      *sql.DB
	metrics *observability.Metrics
}

// NewUserStore creates a PostgreSQL-backed user store. metrics may be nil.
func NewUserStore(db *sql.DB, metrics *observability.Metrics) *UserStore {
	return &UserStore{db: db, metrics: metrics}
}

// CreateUser inserts a new identity record, filling ID and CreatedAt.
// Duplicate username or email returns storage.ErrConflict; the unique
// constraints catch races the advisory pre-check misses.
func (s *UserStore) CreateUser(ctx context.Context, user *api.User) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, "create_user", start, err) }()

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, user.Username, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByUsername loads a user by exact username
func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (user *api.User, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, "get_user", start, err) }()

	user = &api.User{}
	err = s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UsernameOrEmailTaken reports whether either identifier is already in use.
// Advisory only: CreateUser remains the authority under concurrency.
func (s *UserStore) UsernameOrEmailTaken(ctx context.Context, username, email string) (taken bool, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, "user_taken_check", start, err) }()

	err = s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)
	`, username, email).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return taken, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (SQLSTATE 23505)
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// observe records store metrics when a collector is wired in
func observe(m *observability.Metrics, operation string, start time.Time, err error) {
	if m != nil {
		m.ObserveStoreOperation(operation, start, err)
	}
}
