// Package autosave funnels every commit trigger through one idempotent
// operation. Commits are coalesced because each one rewrites the whole user
// record.
package autosave

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/maumlog/maum/backend/internal/service/chat"
	"github.com/maumlog/maum/backend/internal/service/registry"
)

// DefaultInterval is the safety-net tick between background commits.
const DefaultInterval = 5 * time.Minute

// Policy decides when the live conversation reaches the registry.
type Policy struct {
	engine   *chat.Engine
	registry *registry.Registry
	interval time.Duration
	// mu, when set, serializes commits with the owner's request handling.
	mu sync.Locker
}

// NewPolicy creates a policy for one user's engine and registry. A
// non-positive interval falls back to DefaultInterval. mu may be nil when
// the caller already serializes access.
func NewPolicy(engine *chat.Engine, reg *registry.Registry, interval time.Duration, mu sync.Locker) *Policy {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Policy{engine: engine, registry: reg, interval: interval, mu: mu}
}

// Commit upserts the live session into the registry. It is a no-op when the
// session is not save-worthy (no user turn yet, or no emotion) or unchanged
// since the last commit. On a store failure the engine stays dirty so the
// next trigger retries the same commit.
func (p *Policy) Commit(ctx context.Context) error {
	if !p.engine.SaveWorthy() {
		return nil
	}
	if !p.engine.Dirty() {
		return nil
	}

	session, ok := p.engine.Active()
	if !ok {
		return nil
	}

	if err := p.registry.Upsert(ctx, session); err != nil {
		return err
	}
	p.engine.MarkSaved()
	return nil
}

// Run drives the background tick until ctx is cancelled. Tick failures are
// logged, not fatal; the in-memory session is retained for the next trigger.
func (p *Policy) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.commitLocked(ctx); err != nil {
				log.Printf("[autosave] tick commit failed: %v", err)
			}
		}
	}
}

func (p *Policy) commitLocked(ctx context.Context) error {
	if p.mu != nil {
		p.mu.Lock()
		defer p.mu.Unlock()
	}
	return p.Commit(ctx)
}
