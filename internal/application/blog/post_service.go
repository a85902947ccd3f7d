package blog

import (
	"context"
	"fmt"
	"time"

	"github.com/apexgym/backend/internal/domain/blog"
	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ObjectStorageService abstracts the object store holding post cover images
type ObjectStorageService interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, storageKey string) error
}

// PostService handles blog post operations
type PostService struct {
	postRepo blog.PostRepository
	storage  ObjectStorageService
}

// NewPostService creates a new PostService
func NewPostService(postRepo blog.PostRepository, storage ObjectStorageService) *PostService {
	return &PostService{
		postRepo: postRepo,
		storage:  storage,
	}
}

// Create publishes a new post authored by the given user
func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*PostResponse, error) {
	post, err := blog.NewPost(authorID, req.Title, req.Content)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}

	resp := ToPostResponse(post, "")
	return &resp, nil
}

// Get returns a single post by ID
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.imageURL(ctx, post.ImageKey)
	if err != nil {
		return nil, err
	}

	resp := ToPostResponse(post, imageURL)
	return &resp, nil
}

// List returns a page of posts, newest first
func (s *PostService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[PostResponse], error) {
	posts, err := s.postRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]PostResponse, len(posts))
	for i := range posts {
		imageURL, err := s.imageURL(ctx, posts[i].ImageKey)
		if err != nil {
			return nil, err
		}
		responses[i] = ToPostResponse(&posts[i], imageURL)
	}

	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update applies partial changes to a post
func (s *PostService) Update(ctx context.Context, id uuid.UUID, req UpdatePostRequest) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil || req.Content != nil {
		title := post.Title
		content := post.Content
		if req.Title != nil {
			title = *req.Title
		}
		if req.Content != nil {
			content = *req.Content
		}
		if err := post.Update(title, content); err != nil {
			return nil, err
		}
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}

	imageURL, err := s.imageURL(ctx, post.ImageKey)
	if err != nil {
		return nil, err
	}

	resp := ToPostResponse(post, imageURL)
	return &resp, nil
}

// UploadImage stores a post cover image and records its key
func (s *PostService) UploadImage(ctx context.Context, id uuid.UUID, data []byte, contentType string) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("posts/%s/%s", post.ID, uuid.New())
	if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		return nil, err
	}

	oldKey := post.ImageKey
	post.SetImageKey(key)
	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}

	if oldKey != "" {
		// Replaced image is unreferenced now; removal failures are not fatal.
		_ = s.storage.DeleteObject(ctx, oldKey)
	}

	imageURL, err := s.imageURL(ctx, key)
	if err != nil {
		return nil, err
	}

	resp := ToPostResponse(post, imageURL)
	return &resp, nil
}

// Delete removes a post and its stored image
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}

	if post.ImageKey != "" {
		_ = s.storage.DeleteObject(ctx, post.ImageKey)
	}

	return nil
}

func (s *PostService) imageURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		return "", err
	}
	return url, nil
}
