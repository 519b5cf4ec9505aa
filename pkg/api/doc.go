// Package api implements the HTTP/JSON surface of the catalog service.
//
// # Overview
//
// The package defines the domain types (User, Product), the store
// interfaces the storage backends implement, and the mux router binding
// verbs and paths to handlers. Input validation runs before any store
// access, fields are checked in documented order, and the first failing
// field's message is returned.
//
// # Routes
//
//	POST   /register        create account, returns token   (public)
//	POST   /login           authenticate, returns token     (public)
//	POST   /logout          denylist current token          (bearer token)
//	GET    /products        list with filter + pagination   (bearer token)
//	GET    /products/{id}   fetch one product               (bearer token)
//	POST   /products        create product                  (bearer token)
//	PUT    /products/{id}   update own product              (bearer token)
//	DELETE /products/{id}   delete own product              (bearer token)
//	GET    /health          liveness                        (public)
//	GET    /health/ready    readiness with dependency pings (public)
//	GET    /metrics         Prometheus metrics              (public)
//
// # Error Shape
//
// Every failure is a JSON body {"error": "<message>"} with the appropriate
// status code. Duplicate registrations return 400 (not 409) for
// compatibility with existing clients. Store failures surface as a generic
// 500 with details only in the server log.
//
// # Ownership
//
// Products are owned by the user who created them. Reads are visible to any
// authenticated user; update and delete require the caller to be the owner.
// A missing record is 404 and takes precedence over the 403 ownership check.
package api
