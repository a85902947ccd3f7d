package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInfo is the slice of product state the cart needs for its
// stock and availability checks.
type ProductInfo struct {
	ID       uuid.UUID
	Name     string
	Price    decimal.Decimal
	Stock    int
	Active   bool
	ImageKey string
}

// Available reports whether the product can be added to a cart
func (p *ProductInfo) Available() bool {
	return p.Active && p.Stock >= 1
}

// CatalogReader is the cart's read-only view of the product catalog
type CatalogReader interface {
	// ProductForCart returns the product state needed for cart checks,
	// or shared.ErrNotFound when no such product exists
	ProductForCart(ctx context.Context, productID uuid.UUID) (*ProductInfo, error)

	// ProductsForCart returns product state for a set of products keyed by ID.
	// Missing products are simply absent from the result.
	ProductsForCart(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]ProductInfo, error)
}
