package audit

import (
	"context"
	"log"
	"time"

	"github.com/thekillingspree/quick-entry/config"
	"github.com/thekillingspree/quick-entry/internal/store"
)

// Auditor periodically verifies that every room's occupancy counter equals
// its count of open ledger entries, and repairs any drift. Under normal
// operation it never finds anything; it exists to catch damage from crashes
// or out-of-band writes.
type Auditor struct {
	cfg   *config.Config
	store store.Store
}

// New creates an auditor over the given store.
func New(cfg *config.Config, s store.Store) *Auditor {
	return &Auditor{cfg: cfg, store: s}
}

// Run starts the audit loop.
func (a *Auditor) Run(ctx context.Context) {
	if !a.cfg.Audit.Enabled {
		log.Println("Occupancy auditor is disabled. Not starting.")
		return
	}
	log.Println("Starting occupancy auditor...")

	a.RunOnce(ctx)

	timer := time.NewTimer(a.cfg.Audit.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Occupancy auditor shutting down.")
			return
		case <-timer.C:
			a.RunOnce(ctx)
			timer.Reset(a.cfg.Audit.Interval)
		}
	}
}

// RunOnce performs a single audit pass.
func (a *Auditor) RunOnce(ctx context.Context) {
	repairs, err := a.store.AuditOccupancy(ctx)
	if err != nil {
		log.Printf("Occupancy audit failed: %v", err)
		return
	}
	for _, r := range repairs {
		log.Printf("Occupancy audit repaired room %d: counter was %d, open entries %d",
			r.RoomID, r.Stored, r.Actual)
	}
}
