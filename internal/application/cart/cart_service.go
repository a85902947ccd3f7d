package cart

import (
	"context"
	"errors"

	"github.com/apexgym/backend/internal/domain/cart"
	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImageURLProvider resolves a stored image key to a URL clients can fetch
type ImageURLProvider interface {
	ImageURL(ctx context.Context, key string) (string, error)
}

// CartService handles cart business operations.
//
// Stock checks are advisory and check-then-write: the availability check
// and the line write run without a transaction, so two concurrent adds
// can both pass the check. Stock is a listing cap, not a reservation,
// and is never decremented here.
type CartService struct {
	cartRepo cart.CartRepository
	catalog  cart.CatalogReader
	images   ImageURLProvider
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, catalog cart.CatalogReader, images ImageURLProvider) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		catalog:  catalog,
		images:   images,
	}
}

// GetCart returns the user's cart lines joined with product data, oldest
// line first, along with the derived total and item count. An empty cart
// yields an empty item list with zero totals.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	lines, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		productIDs[i] = line.ProductID
	}

	products, err := s.catalog.ProductsForCart(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	items := make([]CartItemResponse, 0, len(lines))
	total := decimal.Zero
	count := 0

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			// Product was deleted after being carted; skip the orphan line.
			continue
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))

		imageURL := ""
		if product.ImageKey != "" {
			imageURL, err = s.images.ImageURL(ctx, product.ImageKey)
			if err != nil {
				return nil, err
			}
		}

		items = append(items, CartItemResponse{
			ProductID: line.ProductID,
			Name:      product.Name,
			ImageURL:  imageURL,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Stock:     product.Stock,
			LineTotal: lineTotal,
			AddedAt:   line.CreatedAt,
		})
		total = total.Add(lineTotal)
		count++
	}

	return &CartResponse{
		Items: items,
		Total: total,
		Count: count,
	}, nil
}

// AddToCart adds a product to the user's cart. When the product is
// already carted the requested quantity merges into the existing line,
// and the merged quantity must fit within the current stock.
func (s *CartService) AddToCart(ctx context.Context, userID uuid.UUID, req AddToCartRequest) (*MutationResponse, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	product, err := s.catalog.ProductForCart(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Available() {
		return nil, shared.ErrProductUnavailable
	}

	line, err := s.cartRepo.FindByUserAndProduct(ctx, userID, req.ProductID)
	switch {
	case err == nil:
		if line.Quantity+quantity > product.Stock {
			return nil, shared.ErrInsufficientStock
		}
		if err := line.AddQuantity(quantity); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		if quantity > product.Stock {
			return nil, shared.ErrInsufficientStock
		}
		line, err = cart.NewCartLine(userID, req.ProductID, quantity)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, line); err != nil {
		return nil, err
	}

	return s.mutationResponse(ctx, userID, line)
}

// UpdateCartItem sets the absolute quantity of a cart line. A quantity
// of zero or less removes the line; removing an absent line succeeds.
// An inactive product does not block the update, only stock does, so a
// member can still lower a line whose product was deactivated.
func (s *CartService) UpdateCartItem(ctx context.Context, userID, productID uuid.UUID, req UpdateCartItemRequest) (*MutationResponse, error) {
	if req.Quantity <= 0 {
		if err := s.cartRepo.DeleteByUserAndProduct(ctx, userID, productID); err != nil {
			return nil, err
		}
		return s.removalResponse(ctx, userID)
	}

	product, err := s.catalog.ProductForCart(ctx, productID)
	if err != nil {
		return nil, err
	}
	if req.Quantity > product.Stock {
		return nil, shared.ErrInsufficientStock
	}

	line, err := s.cartRepo.FindByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if err := line.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, line); err != nil {
		return nil, err
	}

	return s.mutationResponse(ctx, userID, line)
}

// RemoveFromCart deletes a single line. Removing a product that is not
// in the cart succeeds.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) (*MutationResponse, error) {
	if err := s.cartRepo.DeleteByUserAndProduct(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.removalResponse(ctx, userID)
}

// ClearCart deletes every line in the user's cart. Clearing an empty
// cart succeeds.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.DeleteByUser(ctx, userID)
}

func (s *CartService) mutationResponse(ctx context.Context, userID uuid.UUID, line *cart.CartLine) (*MutationResponse, error) {
	count, err := s.cartRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MutationResponse{
		Line: &CartLineResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UpdatedAt: line.UpdatedAt,
		},
		CartCount: count,
	}, nil
}

func (s *CartService) removalResponse(ctx context.Context, userID uuid.UUID) (*MutationResponse, error) {
	count, err := s.cartRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &MutationResponse{
		Removed:   true,
		CartCount: count,
	}, nil
}
