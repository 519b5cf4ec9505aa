package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shelfstack/catalog/pkg/api"
	"github.com/shelfstack/catalog/pkg/observability"
	"github.com/shelfstack/catalog/pkg/storage"
)

const productColumns = "id, name, price, category, description, owner_id, created_at, updated_at"

// ProductStore implements api.ProductStore on PostgreSQL with an optional
// in-process LRU for product-by-id reads
type ProductStore struct {
	db      *sql.DB
	cache   *lru.Cache[int64, *api.Product]
	metrics *observability.Metrics
}

// NewProductStore creates a PostgreSQL-backed product store. cacheSize <= 0
// disables the read cache; metrics may be nil.
func NewProductStore(db *sql.DB, cacheSize int, metrics *observability.Metrics) (*ProductStore, error) {
	s := &ProductStore{db: db, metrics: metrics}
	if cacheSize > 0 {
		cache, err := lru.New[int64, *api.Product](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create product cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// CreateProduct inserts a new product, filling ID and both timestamps
func (s *ProductStore) CreateProduct(ctx context.Context, product *api.Product) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, "create_product", start, err) }()

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO products (name, price, category, description, owner_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, product.Name, product.Price, product.Category, product.Description, product.OwnerID).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.cacheStore(product)
	return nil
}

// GetProduct loads a product by id, serving from cache when possible
func (s *ProductStore) GetProduct(ctx context.Context, id int64) (product *api.Product, err error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(id); ok {
			if s.metrics != nil {
				s.metrics.CacheHitsTotal.Inc()
			}
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.CacheMissesTotal.Inc()
		}
	}

	start := time.Now()
	defer func() { observe(s.metrics, "get_product", start, err) }()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	product, err = scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	s.cacheStore(product)
	return product, nil
}

// ListProducts returns one page of products plus the unpaginated total.
// Ordering is newest-first with id as the stable tie-break, so rows created
// in the same instant list in insertion order.
func (s *ProductStore) ListProducts(ctx context.Context, filter api.ProductFilter, limit, offset int) (products []*api.Product, total int, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, "list_products", start, err) }()

	where, args := buildFilter(filter)

	query := fmt.Sprintf(
		"SELECT "+productColumns+" FROM products %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2,
	)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products = []*api.Product{}
	for rows.Next() {
		product, scanErr := scanProduct(rows)
		if scanErr != nil {
			err = fmt.Errorf("failed to scan product: %w", scanErr)
			return nil, 0, err
		}
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate products: %w", err)
	}

	// Second query with the same predicate, without pagination
	countQuery := "SELECT COUNT(*) FROM products " + where
	if err = s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	return products, total, nil
}

// UpdateProduct rewrites all mutable fields of a product the caller owns.
// The ownership predicate lives in the UPDATE itself so the check and the
// write cannot race.
func (s *ProductStore) UpdateProduct(ctx context.Context, id, ownerID int64, fields api.ProductFields) (product *api.Product, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, "update_product", start, err) }()

	row := s.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $1, price = $2, category = $3, description = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5 AND owner_id = $6
		RETURNING `+productColumns,
		fields.Name, fields.Price, fields.Category, fields.Description, id, ownerID)
	product, err = scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.mutationMiss(ctx, id)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.cacheStore(product)
	return product, nil
}

// DeleteProduct removes a product the caller owns
func (s *ProductStore) DeleteProduct(ctx context.Context, id, ownerID int64) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, "delete_product", start, err) }()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM products WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return s.mutationMiss(ctx, id)
	}

	if s.cache != nil {
		s.cache.Remove(id)
	}
	return nil
}

// mutationMiss disambiguates a zero-row mutation: absence is ErrNotFound
// and takes precedence over the ownership ErrNotOwner.
func (s *ProductStore) mutationMiss(ctx context.Context, id int64) error {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check product existence: %w", err)
	}
	if exists {
		return storage.ErrNotOwner
	}
	return storage.ErrNotFound
}

// buildFilter composes the optional predicates as parameterized clauses.
// User input is only ever bound to placeholders, never interpolated.
func buildFilter(filter api.ProductFilter) (string, []interface{}) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", argCount)
		args = append(args, filter.Category)
		argCount++
	}

	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filter.Search+"%")
		argCount++
	}

	return where, args
}

// cacheStore caches a product snapshot. Cached products are treated as
// immutable; mutations always replace the entry.
func (s *ProductStore) cacheStore(product *api.Product) {
	if s.cache != nil {
		s.cache.Add(product.ID, product)
	}
}

// scanner abstracts *sql.Row and *sql.Rows for scanProduct
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row scanner) (*api.Product, error) {
	product := &api.Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Category,
		&product.Description,
		&product.OwnerID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}
