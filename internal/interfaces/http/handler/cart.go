package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartapp "github.com/apexgym/backend/internal/application/cart"
)

// CartService defines the cart operations the handler depends on
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cartapp.CartResponse, error)
	AddToCart(ctx context.Context, userID uuid.UUID, req cartapp.AddToCartRequest) (*cartapp.MutationResponse, error)
	UpdateCartItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, req cartapp.UpdateCartItemRequest) (*cartapp.MutationResponse, error)
	RemoveFromCart(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*cartapp.MutationResponse, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

// CartHandler handles shopping cart endpoints
type CartHandler struct {
	*BaseHandler
	service CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service CartService) *CartHandler {
	return &CartHandler{
		BaseHandler: NewBaseHandler(),
		service:     service,
	}
}

// RegisterRoutes registers cart routes on the given router group
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/add", h.AddToCart)
		cart.PUT("/update/:productId", h.UpdateCartItem)
		cart.DELETE("/remove/:productId", h.RemoveFromCart)
		cart.DELETE("/clear", h.ClearCart)
	}
}

// GetCart returns the current user's cart with derived totals
func (h *CartHandler) GetCart(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddToCart adds a product to the cart, merging with an existing line
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req cartapp.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.AddToCart(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateCartItem sets the absolute quantity of a cart line
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req cartapp.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.UpdateCartItem(c.Request.Context(), userID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveFromCart removes a cart line. Removing an absent line succeeds.
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	result, err := h.service.RemoveFromCart(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ClearCart removes every line from the current user's cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.ClearCart(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
