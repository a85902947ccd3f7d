package blog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost(t *testing.T) {
	authorID := uuid.New()

	t.Run("creates post", func(t *testing.T) {
		post, err := NewPost(authorID, "  Five mobility drills  ", "Start with the hips.")
		require.NoError(t, err)
		assert.Equal(t, "Five mobility drills", post.Title)
		assert.Equal(t, authorID, post.AuthorID)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewPost(authorID, "   ", "content")
		require.Error(t, err)
	})

	t.Run("rejects empty content", func(t *testing.T) {
		_, err := NewPost(authorID, "Title", "")
		require.Error(t, err)
	})
}

func TestPostUpdate(t *testing.T) {
	post, err := NewPost(uuid.New(), "Old title", "Old content")
	require.NoError(t, err)

	require.NoError(t, post.Update("New title", "New content"))
	assert.Equal(t, "New title", post.Title)
	assert.Equal(t, "New content", post.Content)

	require.Error(t, post.Update("", "New content"))
}
