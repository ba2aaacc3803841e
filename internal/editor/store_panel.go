package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/roach88/recipetracker/internal/model"
)

// ErrSyncInProgress is returned when a push or pull is requested while
// another one is running.
var ErrSyncInProgress = errors.New("store sync already in progress")

// StorePanel pushes and pulls the backing store. Each call starts with a
// clean error; a failed push stays failed until the next explicit call.
//
// Thread-safety: safe for concurrent use.
type StorePanel struct {
	session *Session

	mu      sync.Mutex
	busy    bool
	lastErr error
}

// StorePanel returns a sync panel bound to the session.
func (s *Session) StorePanel() *StorePanel {
	return &StorePanel{session: s}
}

// Push sends store commits upstream.
func (p *StorePanel) Push(ctx context.Context) error {
	return p.run(ctx, model.SyncPush)
}

// Pull fetches upstream commits into the store.
func (p *StorePanel) Pull(ctx context.Context) error {
	return p.run(ctx, model.SyncPull)
}

// Busy reports whether a sync is running.
func (p *StorePanel) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// LastErr returns the error of the most recent call, nil on success.
func (p *StorePanel) LastErr() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *StorePanel) run(ctx context.Context, dir model.SyncDirection) error {
	p.mu.Lock()
	if p.busy {
		p.mu.Unlock()
		return ErrSyncInProgress
	}
	p.busy = true
	p.lastErr = nil
	p.mu.Unlock()

	err := p.session.api.Sync(ctx, dir)

	p.mu.Lock()
	p.busy = false
	p.lastErr = err
	p.mu.Unlock()

	if err != nil {
		p.session.log.Warn("store sync failed", "direction", dir, "error", err)
	}
	return err
}
