// Package httputil provides HTTP handler utilities for consistent error
// handling, JSON encoding/decoding, request parsing, and the common
// middleware stack (request ID, logging, panic recovery, CORS, body limits).
package httputil
