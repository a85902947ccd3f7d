package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/apexgym/backend/internal/domain/catalog"
	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountActive(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockObjectStorage is a mock implementation of ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), time.Time{}, args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func mustProduct(t *testing.T, name string, price int64, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "", decimal.NewFromInt(price), stock)
	require.NoError(t, err)
	return product
}

func TestProductServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and persists product", func(t *testing.T) {
		repo := new(MockProductRepository)
		storage := new(MockObjectStorage)
		service := NewProductService(repo, storage)

		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := service.Create(ctx, CreateProductRequest{
			Name:  "Whey Protein 2kg",
			Price: decimal.NewFromInt(45),
			Stock: 20,
		})
		require.NoError(t, err)
		assert.Equal(t, "Whey Protein 2kg", resp.Name)
		assert.Equal(t, "active", resp.Status)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid product", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, new(MockObjectStorage))

		_, err := service.Create(ctx, CreateProductRequest{Name: "", Price: decimal.NewFromInt(1)})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductServiceGet(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves image URL", func(t *testing.T) {
		repo := new(MockProductRepository)
		storage := new(MockObjectStorage)
		service := NewProductService(repo, storage)

		product := mustProduct(t, "Lifting Belt", 30, 10)
		product.SetImageKey("products/belt.jpg")

		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		storage.On("GenerateDownloadURL", ctx, "products/belt.jpg", time.Duration(0)).
			Return("https://cdn.example.com/belt.jpg", time.Time{}, nil)

		resp, err := service.Get(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/belt.jpg", resp.ImageURL)
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo, new(MockObjectStorage))

		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.Get(ctx, id)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("applies partial update", func(t *testing.T) {
		repo := new(MockProductRepository)
		storage := new(MockObjectStorage)
		service := NewProductService(repo, storage)

		product := mustProduct(t, "Gym Towel", 12, 50)
		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("Save", ctx, product).Return(nil)

		newStock := 5
		active := false
		resp, err := service.Update(ctx, product.ID, UpdateProductRequest{Stock: &newStock, Active: &active})
		require.NoError(t, err)
		assert.Equal(t, 5, resp.Stock)
		assert.Equal(t, "inactive", resp.Status)
	})
}

func TestProductServiceUploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads and replaces previous image", func(t *testing.T) {
		repo := new(MockProductRepository)
		storage := new(MockObjectStorage)
		service := NewProductService(repo, storage)

		product := mustProduct(t, "Shaker", 8, 30)
		product.SetImageKey("products/old.jpg")

		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		storage.On("Upload", ctx, mock.AnythingOfType("string"), []byte("img"), "image/jpeg").Return(nil)
		repo.On("Save", ctx, product).Return(nil)
		storage.On("DeleteObject", ctx, "products/old.jpg").Return(nil)
		storage.On("GenerateDownloadURL", ctx, mock.AnythingOfType("string"), time.Duration(0)).
			Return("https://cdn.example.com/new.jpg", time.Time{}, nil)

		resp, err := service.UploadImage(ctx, product.ID, []byte("img"), "image/jpeg")
		require.NoError(t, err)
		assert.NotEqual(t, "products/old.jpg", product.ImageKey)
		assert.Equal(t, "https://cdn.example.com/new.jpg", resp.ImageURL)
		storage.AssertExpectations(t)
	})
}

func TestProductServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes product and image", func(t *testing.T) {
		repo := new(MockProductRepository)
		storage := new(MockObjectStorage)
		service := NewProductService(repo, storage)

		product := mustProduct(t, "Shaker", 8, 30)
		product.SetImageKey("products/shaker.jpg")

		repo.On("FindByID", ctx, product.ID).Return(product, nil)
		repo.On("Delete", ctx, product.ID).Return(nil)
		storage.On("DeleteObject", ctx, "products/shaker.jpg").Return(nil)

		require.NoError(t, service.Delete(ctx, product.ID))
		storage.AssertExpectations(t)
	})
}
