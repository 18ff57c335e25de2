package service

import (
	"context"
	"time"
)

// SweepOptions selects what a reconciliation pass looks at
type SweepOptions struct {
	// OlderThan skips files younger than this, which may belong to a workflow still in flight
	OlderThan time.Duration
	DryRun    bool
}

// SweepStats counts the outcome of one reconciliation pass
type SweepStats struct {
	Listed     int
	Referenced int
	Skipped    int
	Deleted    int
	Failed     int
}

// ReconcilerInterface defines the contract for removing remote assets no photocard points at
type ReconcilerInterface interface {
	Sweep(ctx context.Context, opts SweepOptions) (SweepStats, error)
}
