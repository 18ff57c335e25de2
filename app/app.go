package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"kardly-server/app/auth"
	"kardly-server/app/controller"
	"kardly-server/app/router"
	"kardly-server/config"
	"kardly-server/repository"
	"kardly-server/service"
)

// Initialize wires repositories, services and controllers and returns the HTTP handler.
// driveOpts replace the credentials from cfg when given.
func Initialize(ctx context.Context, log *zap.Logger, cfg *config.Config, conn *sql.DB, driveOpts ...option.ClientOption) (http.Handler, error) {
	assets, err := NewDriveStore(ctx, log, cfg, driveOpts...)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	photocardRepo := repository.NewPhotocardRepository(log.Named("photocards"), conn)
	catalogRepo := repository.NewCatalogRepository(log.Named("catalog"), conn)
	collectionRepo := repository.NewCollectionRepository(conn)

	// Initialize services
	photocardService := service.NewPhotocardService(log.Named("workflow"), photocardRepo, assets, service.NewReferenceValidator(), service.PhotocardConfig{
		StagingDir:          cfg.StagingDir,
		WorkflowTimeout:     cfg.WorkflowTimeout,
		CompensationTimeout: cfg.CompensationTimeout,
	})
	catalogService := service.NewCatalogService(log.Named("catalog"), catalogRepo)
	collectionService := service.NewCollectionService(log.Named("collection"), photocardRepo, collectionRepo)

	var authenticator auth.Authenticator = auth.Disabled{}
	if cfg.JWTSecret != "" {
		authenticator = auth.NewJWT(cfg.JWTSecret)
	} else {
		log.Warn("JWT_SECRET is not set, every token will be rejected")
	}

	// Create controllers
	controllers := &router.Controllers{
		Health:     controller.NewHealthController(conn),
		Photocard:  controller.NewPhotocardController(log.Named("photocards"), photocardService, service.NewImageInspector(), cfg.MaxUploadBytes),
		Catalog:    controller.NewCatalogController(log.Named("catalog"), catalogService),
		Collection: controller.NewCollectionController(log.Named("collection"), collectionService),
	}

	return router.SetupRoutes(log.Named("http"), controllers, auth.NewMiddleware(log.Named("auth"), authenticator), router.Options{
		RequireAuth: cfg.RequireAuth,
	}), nil
}

// NewDriveStore creates the Drive-backed asset store from cfg
func NewDriveStore(ctx context.Context, log *zap.Logger, cfg *config.Config, opts ...option.ClientOption) (*service.DriveAssetStore, error) {
	if len(opts) == 0 {
		creds, err := service.DriveCredentials(cfg.CredentialsPath, cfg.CredentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to load drive credentials: %w", err)
		}
		opts = creds
	}

	store, err := service.NewDriveAssetStore(ctx, log.Named("drive"), service.DriveConfig{
		FolderID:   cfg.DriveFolderID,
		PublicRead: cfg.DrivePublicRead,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewReconciler wires the orphaned-asset sweep used by the reconcile command
func NewReconciler(ctx context.Context, log *zap.Logger, cfg *config.Config, conn *sql.DB) (*service.Reconciler, error) {
	assets, err := NewDriveStore(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	repo := repository.NewPhotocardRepository(log.Named("photocards"), conn)
	return service.NewReconciler(log.Named("reconcile"), assets, repo), nil
}
