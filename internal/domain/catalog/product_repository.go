package catalog

import (
	"context"

	"github.com/apexgym/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	shared.Repository[Product]

	// FindActive finds all active products
	FindActive(ctx context.Context, filter shared.Filter) ([]Product, error)

	// CountActive counts active products
	CountActive(ctx context.Context, filter shared.Filter) (int64, error)
}
