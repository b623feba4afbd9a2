package store

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultKeep is the number of files a Retention keeps unless told otherwise.
const DefaultKeep = 10

// Retention bounds the number of files kept by a Pruner. It is best-effort:
// failures are logged and never reach the caller.
type Retention struct {
	Pruner Pruner
	Keep   int

	mu sync.Mutex
}

func NewRetention(p Pruner, keep int) *Retention {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &Retention{Pruner: p, Keep: keep}
}

// Enforce evicts the oldest files beyond the limit.
func (r *Retention) Enforce() {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed, err := r.Pruner.Prune(r.Keep)
	if err != nil {
		log.Printf("[ERROR] evicting stored files: %v", err)
	}
	if removed > 0 {
		log.Printf("[INFO] evicted %d stored files", removed)
	}
}

// Run calls Enforce every interval until ctx is done.
func (r *Retention) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Enforce()
		}
	}
}
