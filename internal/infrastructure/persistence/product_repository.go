package persistence

import (
	"context"
	"errors"

	"github.com/apexgym/backend/internal/domain/cart"
	"github.com/apexgym/backend/internal/domain/catalog"
	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM.
// It also serves as the cart's read-only catalog view.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindActive finds all active products
func (r *GormProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("status = ?", catalog.ProductStatusActive),
		filter,
	)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActive counts active products
func (r *GormProductRepository) CountActive(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applySearch(
		r.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("status = ?", catalog.ProductStatusActive),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ProductForCart returns the product state the cart needs for its checks
func (r *GormProductRepository) ProductForCart(ctx context.Context, productID uuid.UUID) (*cart.ProductInfo, error) {
	product, err := r.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	info := toProductInfo(product)
	return &info, nil
}

// ProductsForCart returns product state for a set of products keyed by ID.
// Products that no longer exist are simply absent from the result.
func (r *GormProductRepository) ProductsForCart(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]cart.ProductInfo, error) {
	result := make(map[uuid.UUID]cart.ProductInfo, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).Error; err != nil {
		return nil, err
	}

	for i := range products {
		result[products[i].ID] = toProductInfo(&products[i])
	}
	return result, nil
}

func toProductInfo(p *catalog.Product) cart.ProductInfo {
	return cart.ProductInfo{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Stock:    p.Stock,
		Active:   p.Status == catalog.ProductStatusActive,
		ImageKey: p.ImageKey,
	}
}

// applyFilter applies search, pagination and ordering options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	return applyPagination(r.applySearch(query, filter), filter, ProductSortFields)
}

// applySearch applies filter options without pagination
func (r *GormProductRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		// LOWER + LIKE instead of ILIKE so the same query runs on SQLite.
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	return query
}

// Ensure GormProductRepository implements its ports
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
var _ cart.CatalogReader = (*GormProductRepository)(nil)
