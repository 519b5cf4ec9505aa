package api

import (
	"context"
	"time"
)

// User represents a registered account. The password hash never serializes
// outward.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Product represents a catalog item owned by exactly one user
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFilter narrows a product listing. Zero values mean no filtering;
// category matches exactly, search matches a case-insensitive substring of
// name or description, and both combine with AND when present.
type ProductFilter struct {
	Category string
	Search   string
}

// ProductFields is the mutable subset of a product
type ProductFields struct {
	Name        string
	Price       float64
	Category    string
	Description string
}

// UserStore persists user identity records. Uniqueness of username and
// email is enforced by the backing store; CreateUser returns
// storage.ErrConflict on a duplicate even when a pre-check raced.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error)
}

// ProductStore persists catalog products. Mutations are ownership-scoped:
// UpdateProduct and DeleteProduct return storage.ErrNotFound when the id
// does not exist and storage.ErrNotOwner when it exists but belongs to a
// different user.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context, filter ProductFilter, limit, offset int) ([]*Product, int, error)
	UpdateProduct(ctx context.Context, id, ownerID int64, fields ProductFields) (*Product, error)
	DeleteProduct(ctx context.Context, id, ownerID int64) error
}
