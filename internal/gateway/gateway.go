// Package gateway exposes typed request/response wrappers around the managed
// backend's remote functions, one file per entity. No business logic lives
// here; totals, payment application, refund validation and reporting are the
// backend's job.
package gateway

import "context"

// Caller invokes a named function on the managed backend.
// Satisfied by *backend.Client; narrow interface for testability.
type Caller interface {
	Call(ctx context.Context, token, function string, params, result interface{}) error
}
