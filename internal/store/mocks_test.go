package store

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/javajoker/kicks-catalog/internal/gateway"
	"github.com/javajoker/kicks-catalog/internal/models"
)

type mockProductTable struct {
	mock.Mock
}

func (m *mockProductTable) List(ctx context.Context) ([]models.ProductRow, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]models.ProductRow)
	return rows, args.Error(1)
}

func (m *mockProductTable) Insert(ctx context.Context, row models.ProductRow) (models.ProductRow, error) {
	args := m.Called(ctx, row)
	return args.Get(0).(models.ProductRow), args.Error(1)
}

func (m *mockProductTable) Update(ctx context.Context, id string, row models.ProductRow) (models.ProductRow, error) {
	args := m.Called(ctx, id, row)
	return args.Get(0).(models.ProductRow), args.Error(1)
}

func (m *mockProductTable) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductTable) Images(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	images, _ := args.Get(0).([]string)
	return images, args.Error(1)
}

func (m *mockProductTable) ExistsWithBrand(ctx context.Context, brand string) (bool, error) {
	args := m.Called(ctx, brand)
	return args.Bool(0), args.Error(1)
}

type mockBrandTable struct {
	mock.Mock
}

func (m *mockBrandTable) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *mockBrandTable) Insert(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *mockBrandTable) Delete(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

type mockSettingsTable struct {
	mock.Mock
}

func (m *mockSettingsTable) LoadSectionOrder(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}

func (m *mockSettingsTable) SaveSectionOrder(ctx context.Context, order []string) error {
	return m.Called(ctx, order).Error(0)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Bucket() string { return "product-images" }

func (m *mockStorage) Upload(ctx context.Context, path, contentType string, body []byte) (string, error) {
	args := m.Called(ctx, path, contentType, body)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) PublicURL(path string) string {
	return "https://cdn.example.com/product-images/" + path
}

func (m *mockStorage) Remove(ctx context.Context, paths []string) error {
	return m.Called(ctx, paths).Error(0)
}

// fakeFeed records subscriptions so tests can fire change signals by hand.
type fakeFeed struct {
	handlers map[string][]func()
	err      error
}

type fakeSubscription struct {
	unsubscribed bool
}

func (s *fakeSubscription) Unsubscribe() { s.unsubscribed = true }

func (f *fakeFeed) Subscribe(collection string, onChange func()) (gateway.Subscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.handlers == nil {
		f.handlers = make(map[string][]func())
	}
	f.handlers[collection] = append(f.handlers[collection], onChange)
	return &fakeSubscription{}, nil
}

func (f *fakeFeed) fire(collection string) {
	for _, fn := range f.handlers[collection] {
		fn()
	}
}
