// Package delivery defines the entry points through which the outside world
// reaches the application.
package delivery

import "context"

// Delivery is a long-running transport (HTTP server) started from main.
type Delivery interface {
	// Serve blocks until the transport stops or fails.
	Serve(ctx context.Context) error
}
