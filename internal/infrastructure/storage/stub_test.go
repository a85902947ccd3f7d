package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubObjectStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("upload then exists then delete", func(t *testing.T) {
		stub := NewStubObjectStorage()

		require.NoError(t, stub.Upload(ctx, "products/p1/img", []byte("data"), "image/png"))

		exists, err := stub.ObjectExists(ctx, "products/p1/img")
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, stub.DeleteObject(ctx, "products/p1/img"))

		exists, err = stub.ObjectExists(ctx, "products/p1/img")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("rejects empty storage key", func(t *testing.T) {
		stub := NewStubObjectStorage()

		assert.Error(t, stub.Upload(ctx, "", nil, ""))
		assert.Error(t, stub.DeleteObject(ctx, ""))
		_, _, err := stub.GenerateDownloadURL(ctx, "", time.Minute)
		assert.Error(t, err)
	})

	t.Run("image URL resolution", func(t *testing.T) {
		stub := NewStubObjectStorage()

		url, err := stub.ImageURL(ctx, "posts/cover.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://storage.example.com/posts/cover.jpg", url)

		url, err = stub.ImageURL(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, url, "empty key resolves to empty URL")
	})
}
