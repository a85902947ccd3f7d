package cart

import (
	"time"

	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CartLine represents one product entry in a user's cart.
// Each user holds at most one line per product, enforced by a unique
// index on (user_id, product_id).
type CartLine struct {
	shared.BaseEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:2"`
	Quantity  int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartLine) TableName() string {
	return "cart_lines"
}

// NewCartLine creates a new cart line
func NewCartLine(userID, productID uuid.UUID, quantity int) (*CartLine, error) {
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	return &CartLine{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ProductID:  productID,
		Quantity:   quantity,
	}, nil
}

// SetQuantity replaces the line quantity
func (l *CartLine) SetQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	l.Quantity = quantity
	l.UpdatedAt = time.Now()

	return nil
}

// AddQuantity increases the line quantity
func (l *CartLine) AddQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	l.Quantity += quantity
	l.UpdatedAt = time.Now()

	return nil
}
