package blog

import (
	"github.com/apexgym/backend/internal/domain/shared"
)

// PostRepository defines the interface for blog post persistence.
// FindByID returns shared.ErrNotFound for an unknown post.
type PostRepository interface {
	shared.Repository[Post]
}
