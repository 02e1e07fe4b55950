package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressPhotoKey(t *testing.T) {
	key, err := ProgressPhotoKey("abc123", "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "progress/abc123/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.True(t, OwnsKey("abc123", key))
	assert.False(t, OwnsKey("other", key))

	key, err = ProgressPhotoKey("abc123", "image/PNG; charset=binary")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".png"))

	_, err = ProgressPhotoKey("abc123", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)

	_, err = ProgressPhotoKey("abc123", "")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestDisabledStorage(t *testing.T) {
	s := Disabled()
	_, err := s.GeneratePresignedUploadURL(context.Background(), "k", "image/png", 0)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, s.DeleteObject(context.Background(), "k"), ErrNotConfigured)
}
