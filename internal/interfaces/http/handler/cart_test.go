package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	cartapp "github.com/apexgym/backend/internal/application/cart"
	"github.com/apexgym/backend/internal/domain/shared"
	"github.com/apexgym/backend/internal/interfaces/http/middleware"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cartapp.CartResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.CartResponse), args.Error(1)
}

func (m *MockCartService) AddToCart(ctx context.Context, userID uuid.UUID, req cartapp.AddToCartRequest) (*cartapp.MutationResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.MutationResponse), args.Error(1)
}

func (m *MockCartService) UpdateCartItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, req cartapp.UpdateCartItemRequest) (*cartapp.MutationResponse, error) {
	args := m.Called(ctx, userID, productID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.MutationResponse), args.Error(1)
}

func (m *MockCartService) RemoveFromCart(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*cartapp.MutationResponse, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartapp.MutationResponse), args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// authAs injects JWT claims the way the auth middleware would
func authAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, userID.String())
		c.Set(middleware.JWTRoleKey, "member")
		c.Next()
	}
}

func newCartTestRouter(service CartService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(authAs(userID))
	NewCartHandler(service).RegisterRoutes(group)
	return router
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(data)
}

func TestCartHandler_GetCart(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	svc := new(MockCartService)
	svc.On("GetCart", mock.Anything, userID).Return(&cartapp.CartResponse{
		Items: []cartapp.CartItemResponse{
			{
				ProductID: productID,
				Name:      "Whey Protein 2kg",
				Price:     decimal.NewFromInt(45),
				Quantity:  2,
				Stock:     10,
				LineTotal: decimal.NewFromInt(90),
				AddedAt:   time.Now(),
			},
		},
		Total: decimal.NewFromInt(90),
		Count: 2,
	}, nil)

	router := newCartTestRouter(svc, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Whey Protein 2kg")
	assert.Contains(t, w.Body.String(), `"count":2`)
	svc.AssertExpectations(t)
}

func TestCartHandler_AddToCart(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("adds product", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddToCart", mock.Anything, userID, cartapp.AddToCartRequest{
			ProductID: productID,
			Quantity:  2,
		}).Return(&cartapp.MutationResponse{
			Line: &cartapp.CartLineResponse{
				ID:        uuid.New(),
				ProductID: productID,
				Quantity:  2,
			},
			CartCount: 2,
		}, nil)

		router := newCartTestRouter(svc, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/add",
			jsonBody(t, gin.H{"product_id": productID, "quantity": 2}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"cart_count":2`)
		svc.AssertExpectations(t)
	})

	t.Run("missing product ID fails validation", func(t *testing.T) {
		svc := new(MockCartService)
		router := newCartTestRouter(svc, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/add",
			jsonBody(t, gin.H{"quantity": 1}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_VALIDATION")
		svc.AssertNotCalled(t, "AddToCart")
	})

	t.Run("insufficient stock maps to 400", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddToCart", mock.Anything, userID, mock.Anything).
			Return(nil, shared.ErrInsufficientStock)

		router := newCartTestRouter(svc, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/add",
			jsonBody(t, gin.H{"product_id": productID, "quantity": 50}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_INSUFFICIENT_STOCK")
	})

	t.Run("unavailable product maps to 400", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddToCart", mock.Anything, userID, mock.Anything).
			Return(nil, shared.ErrProductUnavailable)

		router := newCartTestRouter(svc, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/add",
			jsonBody(t, gin.H{"product_id": productID}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_PRODUCT_UNAVAILABLE")
	})

	t.Run("unknown product maps to 404", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("AddToCart", mock.Anything, userID, mock.Anything).
			Return(nil, shared.ErrNotFound)

		router := newCartTestRouter(svc, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/add",
			jsonBody(t, gin.H{"product_id": productID}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	})
}

func TestCartHandler_UpdateCartItem(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("sets quantity", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("UpdateCartItem", mock.Anything, userID, productID, cartapp.UpdateCartItemRequest{
			Quantity: 3,
		}).Return(&cartapp.MutationResponse{
			Line: &cartapp.CartLineResponse{
				ID:        uuid.New(),
				ProductID: productID,
				Quantity:  3,
			},
			CartCount: 3,
		}, nil)

		router := newCartTestRouter(svc, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/update/"+productID.String(),
			jsonBody(t, gin.H{"quantity": 3}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		svc := new(MockCartService)
		svc.On("UpdateCartItem", mock.Anything, userID, productID, cartapp.UpdateCartItemRequest{
			Quantity: 0,
		}).Return(&cartapp.MutationResponse{Removed: true, CartCount: 0}, nil)

		router := newCartTestRouter(svc, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/update/"+productID.String(),
			jsonBody(t, gin.H{"quantity": 0}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"removed":true`)
	})

	t.Run("invalid product ID", func(t *testing.T) {
		svc := new(MockCartService)
		router := newCartTestRouter(svc, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/update/not-a-uuid",
			jsonBody(t, gin.H{"quantity": 3}))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "UpdateCartItem")
	})
}

func TestCartHandler_RemoveFromCart(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	svc := new(MockCartService)
	svc.On("RemoveFromCart", mock.Anything, userID, productID).
		Return(&cartapp.MutationResponse{Removed: true, CartCount: 1}, nil)

	router := newCartTestRouter(svc, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/remove/"+productID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"removed":true`)
	svc.AssertExpectations(t)
}

func TestCartHandler_ClearCart(t *testing.T) {
	userID := uuid.New()

	svc := new(MockCartService)
	svc.On("ClearCart", mock.Anything, userID).Return(nil)

	router := newCartTestRouter(svc, userID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/clear", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestCartHandler_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := new(MockCartService)
	router := gin.New()
	group := router.Group("/api/v1")
	NewCartHandler(svc).RegisterRoutes(group)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GetCart")
}
