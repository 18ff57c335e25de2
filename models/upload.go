package models

import "github.com/google/uuid"

// UploadIntent is one incoming image plus the references it should be filed under.
// It lives only for the duration of a single add-photocard call.
type UploadIntent struct {
	Filename    string
	ContentType string
	Data        []byte
	Owner       *uuid.UUID
	References  CardReferences
}

// Size returns the payload size in bytes
func (u UploadIntent) Size() int64 {
	return int64(len(u.Data))
}

// RemoteAsset pairs the public URL of an uploaded image with the handle used to delete it
type RemoteAsset struct {
	URL    string
	Handle string
}

// RemoteObject describes a file listed from the remote asset store
type RemoteObject struct {
	Handle      string
	Name        string
	CreatedTime string // RFC3339 format from Google Drive
}
