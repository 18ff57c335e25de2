package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"kardly-server/repository"
	"kardly-server/utils"
)

// RemoteAssetStore is both halves of the Drive client the reconciler needs
type RemoteAssetStore interface {
	AssetStore
	AssetLister
}

// Reconciler removes uploads that no photocard references, such as those left
// behind by a compensation that failed or by a process that died mid-workflow.
// Implements ReconcilerInterface
type Reconciler struct {
	log    *zap.Logger
	assets RemoteAssetStore
	repo   repository.PhotocardRepositoryInterface
	now    func() time.Time
}

// NewReconciler creates a new Reconciler
func NewReconciler(log *zap.Logger, assets RemoteAssetStore, repo repository.PhotocardRepositoryInterface) *Reconciler {
	return &Reconciler{
		log:    log,
		assets: assets,
		repo:   repo,
		now:    time.Now,
	}
}

// Ensure Reconciler implements ReconcilerInterface
var _ ReconcilerInterface = (*Reconciler)(nil)

// Sweep lists uploads older than opts.OlderThan and deletes those whose handle
// is not stored on any photocard. Errors on single files are counted and the
// pass continues; only a failed listing aborts it.
func (r *Reconciler) Sweep(ctx context.Context, opts SweepOptions) (SweepStats, error) {
	var stats SweepStats
	if opts.OlderThan <= 0 {
		return stats, NewInputError("older-than must be positive")
	}

	cutoff := r.now().Add(-opts.OlderThan)
	r.log.Info("starting reconciliation", zap.Time("cutoff", cutoff), zap.Bool("dry_run", opts.DryRun))

	objects, err := r.assets.List(ctx, cutoff)
	if err != nil {
		return stats, fmt.Errorf("failed to list remote assets: %w", err)
	}
	stats.Listed = len(objects)

	for _, obj := range objects {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		log := r.log.With(zap.String("handle", obj.Handle), zap.String("name", obj.Name))

		// only files written by PhotocardService are candidates
		if _, err := utils.ParseUploadFileName(obj.Name); err != nil {
			stats.Skipped++
			continue
		}

		exists, err := r.repo.ExistsByImageHandle(ctx, obj.Handle)
		if err != nil {
			log.Error("failed to check handle", zap.Error(err))
			stats.Failed++
			continue
		}
		if exists {
			stats.Referenced++
			continue
		}

		if opts.DryRun {
			log.Info("orphaned asset (dry run)", zap.String("created", obj.CreatedTime))
			stats.Deleted++
			continue
		}

		if err := r.assets.Delete(ctx, obj.Handle); err != nil {
			log.Error("failed to delete orphaned asset", zap.Error(err))
			stats.Failed++
			continue
		}

		log.Info("orphaned asset deleted", zap.String("created", obj.CreatedTime))
		stats.Deleted++
	}

	r.log.Info("reconciliation completed",
		zap.Int("listed", stats.Listed),
		zap.Int("referenced", stats.Referenced),
		zap.Int("skipped", stats.Skipped),
		zap.Int("deleted", stats.Deleted),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}
