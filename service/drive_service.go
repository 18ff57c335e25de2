package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"kardly-server/models"
)

const driveListPageSize = 100

// DriveConfig selects the folder photocard images are stored in
type DriveConfig struct {
	FolderID string
	// PublicRead grants anyone-with-the-link read access to every upload so
	// the returned URL can be embedded directly.
	PublicRead bool
}

// DriveAssetStore handles Google Drive API operations for photocard images.
// Implements AssetStore and AssetLister
type DriveAssetStore struct {
	client *drive.Service
	log    *zap.Logger
	config DriveConfig
}

// NewDriveAssetStore creates a new DriveAssetStore.
// opts usually come from DriveCredentials; tests pass an endpoint instead.
func NewDriveAssetStore(ctx context.Context, log *zap.Logger, config DriveConfig, opts ...option.ClientOption) (*DriveAssetStore, error) {
	if config.FolderID == "" {
		return nil, errors.New("drive folder id is required")
	}

	client, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveAssetStore{
		client: client,
		log:    log,
		config: config,
	}, nil
}

// DriveCredentials returns the client options for a service account given as
// a file path or as inline JSON. Inline JSON wins when both are set.
func DriveCredentials(credentialsPath, credentialsJSON string) ([]option.ClientOption, error) {
	opts := []option.ClientOption{option.WithScopes(drive.DriveScope)}
	switch {
	case credentialsJSON != "":
		return append(opts, option.WithCredentialsJSON([]byte(credentialsJSON))), nil
	case credentialsPath != "":
		return append(opts, option.WithCredentialsFile(credentialsPath)), nil
	default:
		return nil, errors.New("no google service account credentials configured")
	}
}

// Ensure DriveAssetStore implements AssetStore and AssetLister
var (
	_ AssetStore  = (*DriveAssetStore)(nil)
	_ AssetLister = (*DriveAssetStore)(nil)
)

// PublicURL builds the direct link for a Drive file id
func PublicURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/uc?id=%s", fileID)
}

// Upload stores body in the configured folder and returns its public URL and
// file id. A file that was created but could not be shared is deleted again,
// so a failed Upload never leaves anything behind that the caller knows of.
func (ds *DriveAssetStore) Upload(ctx context.Context, body io.Reader, name, contentType string) (*models.RemoteAsset, error) {
	meta := &drive.File{
		Name:     name,
		MimeType: contentType,
		Parents:  []string{ds.config.FolderID},
	}

	file, err := ds.client.Files.Create(meta).
		Media(body, googleapi.ContentType(contentType)).
		Fields("id, name").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}
	if file.Id == "" {
		return nil, fmt.Errorf("drive returned no file id for %s", name)
	}

	if ds.config.PublicRead {
		perm := &drive.Permission{Type: "anyone", Role: "reader"}
		if _, err := ds.client.Permissions.Create(file.Id, perm).SupportsAllDrives(true).Context(ctx).Do(); err != nil {
			if delErr := ds.Delete(context.WithoutCancel(ctx), file.Id); delErr != nil {
				ds.log.Warn("failed to delete unshared upload", zap.String("handle", file.Id), zap.Error(delErr))
			}
			return nil, fmt.Errorf("failed to share %s: %w", file.Id, err)
		}
	}

	ds.log.Debug("uploaded to drive", zap.String("handle", file.Id), zap.String("name", name))
	return &models.RemoteAsset{URL: PublicURL(file.Id), Handle: file.Id}, nil
}

// Delete removes a file by id. A file that is already gone counts as deleted.
func (ds *DriveAssetStore) Delete(ctx context.Context, handle string) error {
	err := ds.client.Files.Delete(handle).SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			ds.log.Debug("drive file already gone", zap.String("handle", handle))
			return nil
		}
		return fmt.Errorf("failed to delete %s: %w", handle, err)
	}
	return nil
}

// List returns every non-trashed file in the folder created before createdBefore
func (ds *DriveAssetStore) List(ctx context.Context, createdBefore time.Time) ([]models.RemoteObject, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false and createdTime < '%s'",
		ds.config.FolderID, createdBefore.UTC().Format(time.RFC3339))

	var objects []models.RemoteObject
	pageToken := ""
	for {
		call := ds.client.Files.List().
			Q(query).
			Fields("nextPageToken, files(id, name, createdTime)").
			PageSize(driveListPageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)

		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		r, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, f := range r.Files {
			objects = append(objects, models.RemoteObject{Handle: f.Id, Name: f.Name, CreatedTime: f.CreatedTime})
		}

		pageToken = r.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return objects, nil
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}
