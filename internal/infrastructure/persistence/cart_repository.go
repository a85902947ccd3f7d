package persistence

import (
	"context"
	"errors"

	"github.com/apexgym/backend/internal/domain/cart"
	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser returns all lines for a user, oldest first
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]cart.CartLine, error) {
	var lines []cart.CartLine
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// FindByUserAndProduct returns the user's line for a product
func (r *GormCartRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.CartLine, error) {
	var line cart.CartLine
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

// Save creates or updates a cart line
func (r *GormCartRepository) Save(ctx context.Context, line *cart.CartLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

// DeleteByUserAndProduct removes the user's line for a product.
// Deleting an absent line is not an error.
func (r *GormCartRepository) DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&cart.CartLine{}, "user_id = ? AND product_id = ?", userID, productID).Error
}

// DeleteByUser removes every line in the user's cart
func (r *GormCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&cart.CartLine{}, "user_id = ?", userID).Error
}

// CountByUser returns the number of lines in the user's cart
func (r *GormCartRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&cart.CartLine{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// Ensure GormCartRepository implements CartRepository
var _ cart.CartRepository = (*GormCartRepository)(nil)
