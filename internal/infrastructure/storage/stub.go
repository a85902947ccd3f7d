package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	blogapp "github.com/apexgym/backend/internal/application/blog"
	cartapp "github.com/apexgym/backend/internal/application/cart"
	catalogapp "github.com/apexgym/backend/internal/application/catalog"
)

// StubObjectStorage is an in-memory implementation of the storage ports.
// Use it for development when no S3-compatible backend is configured.
type StubObjectStorage struct {
	// BaseURL is the base URL for generated download URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Ensure StubObjectStorage implements the application storage ports
var _ catalogapp.ObjectStorageService = (*StubObjectStorage)(nil)
var _ blogapp.ObjectStorageService = (*StubObjectStorage)(nil)
var _ cartapp.ImageURLProvider = (*StubObjectStorage)(nil)

// Upload keeps the object in memory
func (s *StubObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = data
	return nil
}

// GenerateDownloadURL generates a fake download URL for the object
func (s *StubObjectStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + "/" + storageKey, expiresAt, nil
}

// ImageURL resolves an image key to a fake URL
func (s *StubObjectStorage) ImageURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return s.BaseURL + "/" + key, nil
}

// DeleteObject removes the object from memory
func (s *StubObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists reports whether the object was uploaded
func (s *StubObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}
