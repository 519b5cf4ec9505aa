// Package storage defines the persistence configuration and the error
// taxonomy shared by all storage backends.
//
// The catalog service stores users and products in PostgreSQL (see the
// postgres subpackage). Handlers never inspect driver errors directly;
// backends translate them into the sentinel errors declared here
// (ErrNotFound, ErrConflict, ErrNotOwner) and the API layer maps those to
// HTTP status codes.
package storage
