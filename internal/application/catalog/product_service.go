package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/apexgym/backend/internal/domain/catalog"
	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ObjectStorageService abstracts the object store holding product images
type ObjectStorageService interface {
	// Upload stores data under the given key
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// GenerateDownloadURL returns a presigned URL for reading the object
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject removes the object from storage
	DeleteObject(ctx context.Context, storageKey string) error
}

// ProductService handles product catalog operations
type ProductService struct {
	productRepo catalog.ProductRepository
	storage     ObjectStorageService
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, storage ObjectStorageService) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		storage:     storage,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Description, req.Price, req.Stock)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	resp := ToProductResponse(product, "")
	return &resp, nil
}

// Get returns a single product by ID
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.imageURL(ctx, product.ImageKey)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product, imageURL)
	return &resp, nil
}

// ListActive returns a page of active products for the shop
func (s *ProductService) ListActive(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, err := s.productRepo.FindActive(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.productRepo.CountActive(ctx, filter)
	if err != nil {
		return nil, err
	}

	return s.toPage(ctx, products, total, filter)
}

// List returns a page of all products for the admin surface
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return s.toPage(ctx, products, total, filter)
}

// Update applies partial changes to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		description := product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}

	if req.Stock != nil {
		if err := product.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}

	if req.Active != nil && *req.Active != (product.Status == catalog.ProductStatusActive) {
		if *req.Active {
			err = product.Activate()
		} else {
			err = product.Deactivate()
		}
		if err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	imageURL, err := s.imageURL(ctx, product.ImageKey)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product, imageURL)
	return &resp, nil
}

// UploadImage stores a product image and records its key
func (s *ProductService) UploadImage(ctx context.Context, id uuid.UUID, data []byte, contentType string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%s/%s", product.ID, uuid.New())
	if err := s.storage.Upload(ctx, key, data, contentType); err != nil {
		return nil, err
	}

	oldKey := product.ImageKey
	product.SetImageKey(key)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	if oldKey != "" {
		// Replaced image is unreferenced now; removal failures are not fatal.
		_ = s.storage.DeleteObject(ctx, oldKey)
	}

	imageURL, err := s.imageURL(ctx, key)
	if err != nil {
		return nil, err
	}

	resp := ToProductResponse(product, imageURL)
	return &resp, nil
}

// Delete removes a product and its stored image
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	if product.ImageKey != "" {
		_ = s.storage.DeleteObject(ctx, product.ImageKey)
	}

	return nil
}

func (s *ProductService) toPage(ctx context.Context, products []catalog.Product, total int64, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		imageURL, err := s.imageURL(ctx, products[i].ImageKey)
		if err != nil {
			return nil, err
		}
		responses[i] = ToProductResponse(&products[i], imageURL)
	}

	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *ProductService) imageURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		return "", err
	}
	return url, nil
}
