package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// UploadFilePrefix starts the name of every image uploaded for a photocard
const UploadFilePrefix = "photocard_"

var uploadNameRegex = regexp.MustCompile(`^photocard_([0-9a-f-]{36})(\.(?:png|jpg|jpeg|webp))?$`)

// UploadFileName builds the remote name for a new upload.
// ext keeps its leading dot and is lower-cased.
// Example: photocard_0f8e3c1a-6a57-4d4f-9c2b-1d2e3f4a5b6c.png
func UploadFileName(id uuid.UUID, ext string) string {
	return UploadFilePrefix + id.String() + strings.ToLower(ext)
}

// ParseUploadFileName parses a name produced by UploadFileName and returns its id.
// Names that do not follow the pattern are rejected.
func ParseUploadFileName(filename string) (uuid.UUID, error) {
	matches := uploadNameRegex.FindStringSubmatch(strings.ToLower(filename))
	if len(matches) < 2 {
		return uuid.Nil, fmt.Errorf("invalid upload filename: %s", filename)
	}

	id, err := uuid.Parse(matches[1])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid upload id in %s: %w", filename, err)
	}
	return id, nil
}
