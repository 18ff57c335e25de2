package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"kardly-server/models"
	"kardly-server/repository"
	"kardly-server/utils"
)

// workflowState names the stages of one add-photocard call in logs.
type workflowState string

const (
	stateValidating workflowState = "VALIDATING"
	stateUploading  workflowState = "UPLOADING"
	statePersisting workflowState = "PERSISTING"
	stateCommitted  workflowState = "COMMITTED"
	stateFailed     workflowState = "FAILED"
)

// PhotocardConfig holds the limits of the add-photocard workflow
type PhotocardConfig struct {
	StagingDir          string
	WorkflowTimeout     time.Duration
	CompensationTimeout time.Duration
}

// PhotocardService adds photocards whose image lives in the remote asset store.
// Implements PhotocardServiceInterface
type PhotocardService struct {
	log       *zap.Logger
	repo      repository.PhotocardRepositoryInterface
	assets    AssetStore
	validator *ReferenceValidator
	config    PhotocardConfig
}

// NewPhotocardService creates a new PhotocardService
func NewPhotocardService(log *zap.Logger, repo repository.PhotocardRepositoryInterface, assets AssetStore, validator *ReferenceValidator, config PhotocardConfig) *PhotocardService {
	return &PhotocardService{
		log:       log,
		repo:      repo,
		assets:    assets,
		validator: validator,
		config:    config,
	}
}

// Ensure PhotocardService implements PhotocardServiceInterface
var _ PhotocardServiceInterface = (*PhotocardService)(nil)

// Create validates the references, uploads the image and inserts the card in
// one transaction. The upload always happens before the insert, so every
// failure after it can be undone by deleting the remote asset; a committed
// row is never compensated.
//
// The call keeps running if ctx is canceled. Only ctx's deadline, capped by
// WorkflowTimeout, bounds it.
func (s *PhotocardService) Create(ctx context.Context, intent models.UploadIntent) (*models.PhotocardCreated, error) {
	ctx, cancel := s.detach(ctx)
	defer cancel()

	log := s.log.With(
		zap.String("filename", intent.Filename),
		zap.String("content_type", intent.ContentType),
		zap.Int64("size", intent.Size()),
	)

	log.Debug("photocard workflow", zap.String("state", string(stateValidating)))
	if _, err := s.validator.Validate(ctx, s.repo, intent.References); err != nil {
		log.Info("photocard rejected before transaction", zap.String("state", string(stateFailed)), zap.Error(err))
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		log.Error("failed to open transaction", zap.Error(err))
		return nil, err
	}

	saga := &photocardSaga{service: s, log: log, ctx: ctx, tx: tx}
	// covers panics; every other path closes the saga itself
	defer saga.abort()

	refs, err := s.validator.Validate(ctx, tx, intent.References)
	if err != nil {
		return nil, saga.fail(stateValidating, err)
	}

	log.Debug("photocard workflow", zap.String("state", string(stateUploading)))
	asset, err := s.upload(ctx, intent)
	if err != nil {
		return nil, saga.fail(stateUploading, err)
	}
	saga.asset = asset

	log.Debug("photocard workflow", zap.String("state", string(statePersisting)), zap.String("handle", asset.Handle))
	card, err := tx.InsertPhotocard(ctx, &models.PhotocardDB{
		UserID:      intent.Owner,
		GroupID:     refs.GroupID,
		MemberID:    refs.MemberID,
		AlbumID:     refs.AlbumID,
		ImageURL:    asset.URL,
		ImageHandle: asset.Handle,
	})
	if err != nil {
		return nil, saga.fail(statePersisting, PersistError.Wrap(err))
	}

	if err := saga.commit(); err != nil {
		return nil, saga.fail(statePersisting, PersistError.Wrap(err))
	}

	log.Info("photocard added",
		zap.String("state", string(stateCommitted)),
		zap.Stringer("photocard_id", card.ID),
		zap.String("handle", asset.Handle),
	)
	return &models.PhotocardCreated{PhotocardID: card.ID, ImageURL: card.ImageURL}, nil
}

// detach drops ctx's cancellation but keeps its values and the earlier of its
// deadline and WorkflowTimeout.
func (s *PhotocardService) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	deadline := time.Now().Add(s.config.WorkflowTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return context.WithDeadline(context.WithoutCancel(ctx), deadline)
}

// upload stages the payload in a temp file and hands it to the asset store.
// The staged file is removed before upload returns, whatever happened.
func (s *PhotocardService) upload(ctx context.Context, intent models.UploadIntent) (*models.RemoteAsset, error) {
	ext := strings.ToLower(filepath.Ext(intent.Filename))

	staged, err := os.CreateTemp(s.config.StagingDir, "photocard_*"+ext)
	if err != nil {
		return nil, errs.New("failed to create staging file: %w", err)
	}
	// a close error must not hide an asset that was already uploaded
	defer func() {
		if cErr := staged.Close(); cErr != nil {
			s.log.Warn("failed to close staging file", zap.String("path", staged.Name()), zap.Error(cErr))
		}
		if rmErr := os.Remove(staged.Name()); rmErr != nil && !os.IsNotExist(rmErr) {
			s.log.Warn("failed to remove staging file", zap.String("path", staged.Name()), zap.Error(rmErr))
		}
	}()

	if _, err := staged.Write(intent.Data); err != nil {
		return nil, errs.New("failed to write staging file: %w", err)
	}
	if _, err := staged.Seek(0, 0); err != nil {
		return nil, errs.New("failed to rewind staging file: %w", err)
	}

	name := utils.UploadFileName(uuid.New(), ext)
	asset, err := s.assets.Upload(ctx, staged, name, intent.ContentType)
	if err != nil {
		return nil, UploadError.Wrap(err)
	}
	if asset == nil || asset.Handle == "" || asset.URL == "" {
		return nil, UploadError.New("asset store returned an empty handle")
	}
	return asset, nil
}

// compensate deletes an uploaded asset that no committed row points at.
// It runs on its own timeout so an expired workflow deadline does not skip it.
// A failure is logged and otherwise ignored.
func (s *PhotocardService) compensate(ctx context.Context, log *zap.Logger, asset *models.RemoteAsset) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.CompensationTimeout)
	defer cancel()

	if err := s.assets.Delete(ctx, asset.Handle); err != nil {
		log.Warn("orphaned remote asset left behind",
			zap.String("handle", asset.Handle),
			zap.String("url", asset.URL),
			zap.Error(CompensationError.Wrap(err)),
		)
		return
	}
	log.Info("remote asset compensated", zap.String("handle", asset.Handle))
}

// photocardSaga tracks the open transaction and the uploaded asset of one
// Create call so that every exit path closes the transaction exactly once
// and compensates at most once.
type photocardSaga struct {
	service *PhotocardService
	log     *zap.Logger
	ctx     context.Context
	tx      repository.PhotocardTx
	asset   *models.RemoteAsset
	closed  bool
}

// commit closes the transaction. On error the saga stays open so fail can
// still attempt the rollback and the compensation.
func (saga *photocardSaga) commit() error {
	if err := saga.tx.Commit(); err != nil {
		return err
	}
	saga.closed = true
	return nil
}

// fail rolls back, compensates the upload if there was one and returns cause unchanged.
func (saga *photocardSaga) fail(state workflowState, cause error) error {
	saga.log.Warn("photocard workflow failed",
		zap.String("state", string(stateFailed)),
		zap.String("failed_at", string(state)),
		zap.Error(cause),
	)
	saga.abort()
	return cause
}

func (saga *photocardSaga) abort() {
	if saga.closed {
		return
	}
	saga.closed = true

	if err := saga.tx.Rollback(); err != nil {
		saga.log.Error("failed to roll back transaction", zap.Error(err))
	}
	if saga.asset != nil {
		saga.service.compensate(saga.ctx, saga.log, saga.asset)
	}
}
