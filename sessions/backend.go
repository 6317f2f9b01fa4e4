// Package sessions hosts app sessions for the HTTP gateway. A session lives
// either in process memory or in a Temporal workflow; both hosts speak the
// same Backend interface.
package sessions

import (
	"context"
	"errors"

	"mitra-credit/shared"
)

// ErrNotFound is returned for session ids that are unknown, closed or expired.
var ErrNotFound = errors.New("session not found")

// Backend creates sessions and delivers events to them.
type Backend interface {
	// Start opens a session and returns its initial snapshot.
	Start(ctx context.Context) (shared.SessionSnapshot, error)
	// Dispatch applies ev to the session. A rejected event returns the
	// unchanged snapshot together with the flow error.
	Dispatch(ctx context.Context, id string, ev shared.Event) (shared.SessionSnapshot, error)
	// Snapshot reads the current state of the session.
	Snapshot(ctx context.Context, id string) (shared.SessionSnapshot, error)
	// Close ends the session.
	Close(ctx context.Context, id string) error
}
