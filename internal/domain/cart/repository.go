package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart line persistence
type CartRepository interface {
	// FindByUser returns all lines for a user, oldest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]CartLine, error)

	// FindByUserAndProduct returns the user's line for a product,
	// or shared.ErrNotFound when the product is not in the cart
	FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*CartLine, error)

	// Save creates or updates a cart line
	Save(ctx context.Context, line *CartLine) error

	// DeleteByUserAndProduct removes the user's line for a product.
	// Deleting an absent line is not an error.
	DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error

	// DeleteByUser removes every line for a user
	DeleteByUser(ctx context.Context, userID uuid.UUID) error

	// CountByUser returns the number of lines in the user's cart
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
