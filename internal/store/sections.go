package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/kicks-catalog/internal/gateway"
	"github.com/javajoker/kicks-catalog/internal/models"
)

// SectionStore holds the display order of the home page sections.
type SectionStore struct {
	table gateway.SettingsTable

	mu      sync.RWMutex
	order   []string
	loading bool
}

func NewSectionStore(client *gateway.Client) *SectionStore {
	return &SectionStore{
		table:   client.Settings,
		order:   models.DefaultSectionOrder(),
		loading: true,
	}
}

func (s *SectionStore) Order() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

func (s *SectionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Fetch loads the stored order. When there is none, or it cannot be read,
// the default order is used. The default is never written back.
func (s *SectionStore) Fetch(ctx context.Context) {
	order, err := s.load(ctx)
	if err != nil {
		logrus.WithError(err).Info("Using default section order")
		order = models.DefaultSectionOrder()
	}

	s.mu.Lock()
	s.order = order
	s.loading = false
	s.mu.Unlock()
}

func (s *SectionStore) load(ctx context.Context) ([]string, error) {
	raw, err := s.table.LoadSectionOrder(ctx)
	if err != nil {
		return nil, err
	}
	return models.DecodeSectionOrder(raw)
}

// Update applies the order locally right away and then persists it. If
// persisting fails the stored order is fetched again and the error returned.
func (s *SectionStore) Update(ctx context.Context, order []string) error {
	next := slices.Clone(order)
	if next == nil {
		next = []string{}
	}

	s.mu.Lock()
	s.order = next
	s.mu.Unlock()

	if err := s.table.SaveSectionOrder(ctx, slices.Clone(next)); err != nil {
		logrus.WithError(err).Error("Error updating section order")
		s.Fetch(context.WithoutCancel(ctx))
		return fmt.Errorf("failed to save section order: %w", err)
	}
	return nil
}
