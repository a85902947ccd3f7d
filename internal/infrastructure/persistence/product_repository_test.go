package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/apexgym/backend/internal/domain/catalog"
	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockGormDB(t)
	return NewGormProductRepository(gormDB), mock, mockDB
}

func TestGormProductRepository_FindByID(t *testing.T) {
	t.Run("finds existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "description", "price", "stock", "status", "image_key"}).
			AddRow(productID, "Whey Protein 2kg", "", decimal.NewFromFloat(45.50), 20, "active", "")

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		product, err := repo.FindByID(context.Background(), productID)

		assert.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Whey Protein 2kg", product.Name)
		assert.Equal(t, 20, product.Stock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing product to ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(productID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		product, err := repo.FindByID(context.Background(), productID)

		assert.Nil(t, product)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_FindActive(t *testing.T) {
	t.Run("filters by active status and paginates", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "name", "price", "stock", "status"}).
			AddRow(uuid.New(), "Lifting Belt", decimal.NewFromInt(30), 10, "active")

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2`).
			WithArgs("active", 20).
			WillReturnRows(rows)

		products, err := repo.FindActive(context.Background(), shared.DefaultFilter())

		assert.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, catalog.ProductStatusActive, products[0].Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown sort field", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		filter := shared.DefaultFilter()
		filter.OrderBy = "price; DROP TABLE products"

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE status = \$1 ORDER BY created_at DESC LIMIT \$2`).
			WithArgs("active", 20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "stock", "status"}))

		_, err := repo.FindActive(context.Background(), filter)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_CountActive(t *testing.T) {
	t.Run("counts active products", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE status = \$1`).
			WithArgs("active").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

		count, err := repo.CountActive(context.Background(), shared.DefaultFilter())

		assert.NoError(t, err)
		assert.Equal(t, int64(5), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	t.Run("deletes existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), productID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		mock.ExpectExec(`DELETE FROM "products" WHERE id = \$1`).
			WithArgs(productID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), productID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_ProductForCart(t *testing.T) {
	t.Run("maps product to cart view", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "price", "stock", "status", "image_key"}).
			AddRow(productID, "Shaker", decimal.NewFromInt(8), 0, "active", "products/shaker.jpg")

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(productID, 1).
			WillReturnRows(rows)

		info, err := repo.ProductForCart(context.Background(), productID)

		assert.NoError(t, err)
		require.NotNil(t, info)
		assert.True(t, info.Active)
		assert.False(t, info.Available(), "zero stock product is not available")
		assert.Equal(t, "products/shaker.jpg", info.ImageKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_ProductsForCart(t *testing.T) {
	t.Run("returns found products keyed by ID, missing ones absent", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		foundID := uuid.New()
		missingID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "price", "stock", "status"}).
			AddRow(foundID, "Gym Towel", decimal.NewFromInt(12), 50, "active")

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id IN \(\$1,\$2\)`).
			WithArgs(foundID, missingID).
			WillReturnRows(rows)

		result, err := repo.ProductsForCart(context.Background(), []uuid.UUID{foundID, missingID})

		assert.NoError(t, err)
		require.Len(t, result, 1)
		assert.Contains(t, result, foundID)
		assert.NotContains(t, result, missingID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty map without querying for no IDs", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		result, err := repo.ProductsForCart(context.Background(), nil)

		assert.NoError(t, err)
		assert.Empty(t, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
