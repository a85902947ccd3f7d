package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddToCartRequest represents a request to add a product to the cart.
// Quantity defaults to 1 when omitted.
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,min=1"`
}

// UpdateCartItemRequest represents a request to set the quantity of a
// cart line. A quantity of zero or less removes the line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemResponse represents one cart line joined with product data
type CartItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
	LineTotal decimal.Decimal `json:"line_total"`
	AddedAt   time.Time       `json:"added_at"`
}

// CartResponse represents the full cart with derived totals
type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
	Count int                `json:"count"`
}

// CartLineResponse represents a single cart line after a mutation
type CartLineResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MutationResponse represents the result of an add or update
type MutationResponse struct {
	Line      *CartLineResponse `json:"line,omitempty"`
	Removed   bool              `json:"removed"`
	CartCount int               `json:"cart_count"`
}
