package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfstack/catalog/pkg/auth"
	"github.com/shelfstack/catalog/pkg/observability"
	"github.com/shelfstack/catalog/pkg/storage"
)

const testSecret = "test-signing-secret"

// fakeUserStore is an in-memory UserStore with the same uniqueness
// semantics as the postgres implementation.
type fakeUserStore struct {
	mu     sync.Mutex
	users  map[int64]*User
	nextID int64

	createErr error
	lookupErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*User)}
}

func (s *fakeUserStore) CreateUser(ctx context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return storage.ErrConflict
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now().UTC()
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	for _, user := range s.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUserStore) UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// fakeProductStore is an in-memory ProductStore mirroring the ownership
// and ordering semantics of the postgres implementation.
type fakeProductStore struct {
	mu       sync.Mutex
	products map[int64]*Product
	nextID   int64

	injectedErr error
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[int64]*Product)}
}

func (s *fakeProductStore) CreateProduct(ctx context.Context, product *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.injectedErr != nil {
		return s.injectedErr
	}
	s.nextID++
	product.ID = s.nextID
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	clone := *product
	s.products[product.ID] = &clone
	return nil
}

func (s *fakeProductStore) GetProduct(ctx context.Context, id int64) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.injectedErr != nil {
		return nil, s.injectedErr
	}
	product, ok := s.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (s *fakeProductStore) ListProducts(ctx context.Context, filter ProductFilter, limit, offset int) ([]*Product, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.injectedErr != nil {
		return nil, 0, s.injectedErr
	}

	matched := make([]*Product, 0, len(s.products))
	for _, product := range s.products {
		if filter.Category != "" && product.Category != filter.Category {
			continue
		}
		if filter.Search != "" {
			term := strings.ToLower(filter.Search)
			name := strings.ToLower(product.Name)
			desc := strings.ToLower(product.Description)
			if !strings.Contains(name, term) && !strings.Contains(desc, term) {
				continue
			}
		}
		clone := *product
		matched = append(matched, &clone)
	}

	// Newest first, id as the tie-break
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	if offset >= total {
		return []*Product{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (s *fakeProductStore) UpdateProduct(ctx context.Context, id, ownerID int64, fields ProductFields) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.injectedErr != nil {
		return nil, s.injectedErr
	}
	product, ok := s.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if product.OwnerID != ownerID {
		return nil, storage.ErrNotOwner
	}
	product.Name = fields.Name
	product.Price = fields.Price
	product.Category = fields.Category
	product.Description = fields.Description
	product.UpdatedAt = time.Now().UTC()
	clone := *product
	return &clone, nil
}

func (s *fakeProductStore) DeleteProduct(ctx context.Context, id, ownerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.injectedErr != nil {
		return s.injectedErr
	}
	product, ok := s.products[id]
	if !ok {
		return storage.ErrNotFound
	}
	if product.OwnerID != ownerID {
		return storage.ErrNotOwner
	}
	delete(s.products, id)
	return nil
}

// seedProduct inserts a product directly, bypassing the HTTP layer
func (s *fakeProductStore) seedProduct(ownerID int64, name, category string, createdAt time.Time) *Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	product := &Product{
		ID:          s.nextID,
		Name:        name,
		Price:       9.99,
		Category:    category,
		Description: "seeded " + name,
		OwnerID:     ownerID,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	s.products[product.ID] = product
	clone := *product
	return &clone
}

// testEnv bundles a server with its backing fakes
type testEnv struct {
	server   *Server
	users    *fakeUserStore
	products *fakeProductStore
	tokens   *auth.TokenService
}

func newTestEnv(t *testing.T, denylist *auth.TokenDenylist) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenService(testSecret, auth.DefaultTokenTTL)
	require.NoError(t, err)

	users := newFakeUserStore()
	products := newFakeProductStore()
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	server := NewServer(DefaultConfig(), Dependencies{
		Users:    users,
		Products: products,
		Hasher:   auth.NewPasswordHasher(bcrypt.MinCost),
		Tokens:   tokens,
		Denylist: denylist,
		Health:   observability.NewHealthChecker(nil, nil),
		Metrics:  observability.NewMetrics(prometheus.NewRegistry()),
		Logger:   logger,
	})

	return &testEnv{
		server:   server,
		users:    users,
		products: products,
		tokens:   tokens,
	}
}

// do issues a request against the test server. An empty token means no
// Authorization header.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.server.ServeHTTP(rec, req)
	return rec
}

// registerUser registers a user over HTTP and returns its id and token
func (e *testEnv) registerUser(t *testing.T, username string) (int64, string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.User.ID, resp.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out),
		fmt.Sprintf("body: %s", rec.Body.String()))
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &resp)
	return resp.Error
}
