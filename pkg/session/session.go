// Package session persists hover sessions between requests.
//
// A hover cycle compares its result against the state the previous cycle
// left behind (see [fx.Session]) to decide whether hover and spike
// notifications fire. In a long-lived process that state lives on the
// plot; a stateless HTTP server rebuilds the plot per request and keeps the
// state here instead, keyed by a client-chosen session ID.
//
// This package defines the [Store] interface with implementations for
// different backends:
//   - memory: In-memory storage for a single server process and tests
//   - redis: Redis-backed storage for multi-instance deployments
//   - file: File-based storage for the CLI
//
// # Usage
//
//	store := session.NewMemoryStore()
//
//	snap, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if snap == nil {
//	    snap = session.New(id, figureID, session.DefaultTTL)
//	}
//	plot.SetSession(snap.State)
//	res := plot.HoverSync(evt)
//	snap.Update(plot.Session(), session.DefaultTTL)
//	store.Set(ctx, snap)
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/hoverfx/pkg/fx"
)

// Snapshot is the stored hover state of one client on one figure.
type Snapshot struct {
	ID        string     `json:"id"`
	FigureID  string     `json:"figure_id,omitempty"`
	State     fx.Session `json:"state"`
	ExpiresAt time.Time  `json:"expires_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IsExpired returns true if the snapshot has outlived its TTL.
func (s *Snapshot) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Update replaces the state and extends the expiry by ttl.
func (s *Snapshot) Update(state fx.Session, ttl time.Duration) {
	now := time.Now()
	s.State = state
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Get retrieves a snapshot by ID.
	// Returns nil, nil if the snapshot doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Set stores a snapshot until its ExpiresAt.
	Set(ctx context.Context, snap *Snapshot) error

	// Delete removes a snapshot.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired snapshots (may be a no-op for Redis).
	Cleanup(ctx context.Context) error
}

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// GenerateID creates a random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// New creates an empty snapshot. An empty id gets a generated one.
func New(id, figureID string, ttl time.Duration) *Snapshot {
	if id == "" {
		id = GenerateID()
	}
	now := time.Now()
	return &Snapshot{
		ID:        id,
		FigureID:  figureID,
		ExpiresAt: now.Add(ttl),
		UpdatedAt: now,
	}
}
