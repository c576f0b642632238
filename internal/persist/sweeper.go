package persist

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically prunes drafts older than the retention window.
type Sweeper struct {
	cron      *cron.Cron
	store     *Store
	retention time.Duration
}

// NewSweeper creates a sweeper. A retention of zero disables pruning.
func NewSweeper(store *Store, retention time.Duration) *Sweeper {
	return &Sweeper{
		cron:      cron.New(),
		store:     store,
		retention: retention,
	}
}

// Start schedules the hourly sweep and runs one immediately.
func (s *Sweeper) Start() error {
	if s.retention <= 0 {
		return nil
	}
	if _, err := s.cron.AddFunc("@hourly", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	go s.sweep()
	return nil
}

// Stop halts future sweeps; a sweep in progress finishes.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) sweep() {
	cutoff := time.Now().Add(-s.retention)
	n, err := s.store.PruneDraftsBefore(cutoff)
	if err != nil {
		log.Printf("[Sweeper] Draft prune failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[Sweeper] Pruned %d stale draft(s)", n)
	}
}
