// Package store keeps the in-memory catalog state in sync with the backend.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/kicks-catalog/internal/gateway"
	"github.com/javajoker/kicks-catalog/internal/models"
)

// ProductStore holds every product, newest first.
type ProductStore struct {
	table   gateway.ProductTable
	storage gateway.ObjectStorage

	mu       sync.RWMutex
	products []models.Product
	loading  bool
}

func NewProductStore(client *gateway.Client) *ProductStore {
	return &ProductStore{
		table:   client.Products,
		storage: client.Storage,
		loading: true,
	}
}

func (s *ProductStore) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

func (s *ProductStore) Get(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return cloneProduct(p), true
		}
	}
	return models.Product{}, false
}

func (s *ProductStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Fetch replaces the in-memory list. On failure the previous list is kept.
// Loading is only reported until the first fetch settles; later refreshes
// happen in the background.
func (s *ProductStore) Fetch(ctx context.Context) {
	defer s.settle()

	rows, err := s.table.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Error fetching products")
		return
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		p, err := models.FromRow(row)
		if err != nil {
			logrus.WithError(err).WithField("product_id", row.ID).Warn("Skipping malformed product row")
			continue
		}
		products = append(products, p)
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
}

func (s *ProductStore) Add(ctx context.Context, p models.Product) (*models.Product, error) {
	row, err := s.table.Insert(ctx, models.ToRow(p))
	if err != nil {
		logrus.WithError(err).WithField("name", p.Name).Error("Error adding product")
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	created, err := models.FromRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	s.mu.Lock()
	s.products = append([]models.Product{created}, s.products...)
	s.mu.Unlock()

	out := cloneProduct(created)
	return &out, nil
}

func (s *ProductStore) Update(ctx context.Context, p models.Product) (*models.Product, error) {
	if p.ID == "" {
		return nil, ErrMissingID
	}

	row, err := s.table.Update(ctx, p.ID, models.ToRow(p))
	if err != nil {
		logrus.WithError(err).WithField("product_id", p.ID).Error("Error updating product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	fresh, err := models.FromRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.mu.Lock()
	for i := range s.products {
		if s.products[i].ID == fresh.ID {
			s.products[i] = fresh
		}
	}
	s.mu.Unlock()

	out := cloneProduct(fresh)
	return &out, nil
}

// Delete removes the row, then the product from memory, then makes a
// best-effort attempt to remove its images. Only the row delete can fail
// the call.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	log := logrus.WithField("product_id", id)

	images, err := s.table.Images(ctx, id)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			log.Warn("Product not found while collecting its images")
		} else {
			log.WithError(err).Warn("Could not look up product images, storage cleanup skipped")
		}
		images = nil
	}

	if err := s.table.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Error deleting product from the database")
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}

	s.mu.Lock()
	s.products = slices.DeleteFunc(s.products, func(p models.Product) bool {
		return p.ID == id
	})
	s.mu.Unlock()

	s.removeImages(ctx, id, images)
	return nil
}

func (s *ProductStore) removeImages(ctx context.Context, id string, images []string) {
	if len(images) == 0 || s.storage == nil {
		return
	}
	log := logrus.WithField("product_id", id)

	paths := make([]string, 0, len(images))
	for _, imageURL := range images {
		path, err := gateway.ObjectPathFromURL(imageURL, s.storage.Bucket())
		if err != nil {
			log.WithError(err).Warn("Skipping image that cannot be mapped to a stored file")
			continue
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return
	}

	if err := s.storage.Remove(ctx, paths); err != nil {
		log.WithError(err).WithField("paths", paths).Warn("Product deleted but image cleanup failed")
	}
}

func (s *ProductStore) settle() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func cloneProduct(p models.Product) models.Product {
	p.Images = slices.Clone(p.Images)
	return p
}

func cloneProducts(in []models.Product) []models.Product {
	out := make([]models.Product, len(in))
	for i, p := range in {
		out[i] = cloneProduct(p)
	}
	return out
}
