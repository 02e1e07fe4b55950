package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

var (
	ErrNotConfigured          = errors.New("file storage is not configured")
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// imageExtensions maps the accepted photo content types to file extensions.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows a PUT of objectKey.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows a GET of objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// ProgressPhotoKey builds a unique object key for a client's progress photo.
// Only image content types are accepted.
func ProgressPhotoKey(clientID string, contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	ext, ok := imageExtensions[strings.ToLower(mediaType)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, mediaType)
	}
	return fmt.Sprintf("progress/%s/%s%s", clientID, uuid.NewString(), ext), nil
}

// OwnsKey reports whether objectKey was issued for clientID by ProgressPhotoKey.
func OwnsKey(clientID string, objectKey string) bool {
	return strings.HasPrefix(objectKey, "progress/"+clientID+"/")
}

// disabledStorage is used when no bucket is configured.
type disabledStorage struct{}

// Disabled returns a FileStorage whose every call fails with ErrNotConfigured.
func Disabled() FileStorage {
	return disabledStorage{}
}

func (disabledStorage) GeneratePresignedUploadURL(context.Context, string, string, time.Duration) (string, error) {
	return "", ErrNotConfigured
}

func (disabledStorage) GeneratePresignedDownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrNotConfigured
}

func (disabledStorage) DeleteObject(context.Context, string) error {
	return ErrNotConfigured
}
