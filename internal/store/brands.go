package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/kicks-catalog/internal/gateway"
)

// BrandStore holds brand names in ascending order and refreshes itself
// whenever the brands collection changes remotely.
type BrandStore struct {
	table    gateway.BrandTable
	products gateway.ProductTable
	feed     gateway.ChangeFeed

	mu      sync.RWMutex
	brands  []string
	loading bool
	sub     gateway.Subscription
}

func NewBrandStore(client *gateway.Client) *BrandStore {
	return &BrandStore{
		table:    client.Brands,
		products: client.Products,
		feed:     client.Feed,
		loading:  true,
	}
}

func (s *BrandStore) Brands() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.brands)
}

func (s *BrandStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Fetch replaces the list. A failed fetch leaves the store empty.
func (s *BrandStore) Fetch(ctx context.Context) {
	names, err := s.table.List(ctx)
	if err != nil {
		logrus.WithError(err).Error("Error fetching brands")
		names = []string{}
	}

	s.mu.Lock()
	s.brands = names
	s.loading = false
	s.mu.Unlock()
}

// Start performs the initial fetch and subscribes to brand changes. Every
// change signal triggers a full refetch.
func (s *BrandStore) Start(ctx context.Context) error {
	s.Fetch(ctx)

	if s.feed == nil {
		logrus.Warn("No change feed configured, brands will not refresh automatically")
		return nil
	}

	refreshCtx := context.WithoutCancel(ctx)
	sub, err := s.feed.Subscribe(gateway.BrandsCollection, func() {
		s.Fetch(refreshCtx)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to brand changes: %w", err)
	}

	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	return nil
}

func (s *BrandStore) Close() {
	s.mu.Lock()
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// Add inserts a brand. The list is refreshed by the change feed, not here.
func (s *BrandStore) Add(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidBrandName
	}

	if err := s.table.Insert(ctx, name); err != nil {
		logrus.WithError(err).WithField("brand", name).Error("Error adding brand")
		return fmt.Errorf("failed to add brand %q: %w", name, err)
	}
	return nil
}

// Delete removes a brand that no product references.
func (s *BrandStore) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidBrandName
	}

	inUse, err := s.products.ExistsWithBrand(ctx, name)
	if err != nil {
		logrus.WithError(err).WithField("brand", name).Error("Error checking brand usage")
		return fmt.Errorf("failed to check usage of brand %q: %w", name, err)
	}
	if inUse {
		return ErrBrandInUse
	}

	if err := s.table.Delete(ctx, name); err != nil {
		logrus.WithError(err).WithField("brand", name).Error("Error deleting brand")
		return fmt.Errorf("failed to delete brand %q: %w", name, err)
	}

	s.mu.Lock()
	s.brands = slices.DeleteFunc(s.brands, func(b string) bool { return b == name })
	s.mu.Unlock()
	return nil
}
