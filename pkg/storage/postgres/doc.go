// Package postgres implements the user and product stores on PostgreSQL.
//
// Uniqueness of username and email is enforced by unique constraints;
// driver-level violations map to storage.ErrConflict. Product mutations run
// as single conditional statements (WHERE id AND owner_id) so the ownership
// check and the write cannot race. Listing composes optional predicates as
// parameterized clauses; user input never reaches query text.
//
// An optional in-process LRU caches product-by-id reads and is invalidated
// on every mutation.
package postgres
