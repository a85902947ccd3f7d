package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	blogapp "github.com/apexgym/backend/internal/application/blog"
	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/apexgym/backend/internal/interfaces/http/dto"
)

// PostService defines the blog operations the handler depends on
type PostService interface {
	Create(ctx context.Context, authorID uuid.UUID, req blogapp.CreatePostRequest) (*blogapp.PostResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*blogapp.PostResponse, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[blogapp.PostResponse], error)
	Update(ctx context.Context, id uuid.UUID, req blogapp.UpdatePostRequest) (*blogapp.PostResponse, error)
	UploadImage(ctx context.Context, id uuid.UUID, data []byte, contentType string) (*blogapp.PostResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BlogHandler handles blog post endpoints
type BlogHandler struct {
	*BaseHandler
	service PostService
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(service PostService) *BlogHandler {
	return &BlogHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// RegisterRoutes registers the public blog routes
func (h *BlogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	blog := rg.Group("/blog/posts")
	{
		blog.GET("", h.List)
		blog.GET("/:id", h.Get)
	}
}

// RegisterAdminRoutes registers post management routes. The caller is
// expected to guard the group with admin-only middleware.
func (h *BlogHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	posts := rg.Group("/posts")
	{
		posts.POST("", h.Create)
		posts.PUT("/:id", h.Update)
		posts.DELETE("/:id", h.Delete)
		posts.POST("/:id/image", h.UploadImage)
	}
}

// List returns blog posts, newest first
func (h *BlogHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	page, err := h.service.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, &dto.Meta{
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	})
}

// Get returns a single post by ID
func (h *BlogHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	post, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, post)
}

// Create creates a new post authored by the current admin
func (h *BlogHandler) Create(c *gin.Context) {
	authorID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req blogapp.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	post, err := h.service.Create(c.Request.Context(), authorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, post)
}

// Update applies a partial update to a post
func (h *BlogHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	var req blogapp.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	post, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, post)
}

// UploadImage attaches a cover image to a post from a multipart form
func (h *BlogHandler) UploadImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	data, contentType, err := readImageUpload(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	post, err := h.service.UploadImage(c.Request.Context(), id, data, contentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, post)
}

// Delete removes a post and its stored image
func (h *BlogHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid post ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
