package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/kicks-catalog/internal/gateway"
	"github.com/javajoker/kicks-catalog/internal/models"
)

func newProductStore() (*ProductStore, *mockProductTable, *mockStorage) {
	table := &mockProductTable{}
	storage := &mockStorage{}
	s := NewProductStore(&gateway.Client{Products: table, Storage: storage})
	return s, table, storage
}

func productRow(id, name string, images ...string) models.ProductRow {
	row := models.ToRow(models.Product{Name: name, Brand: "Nike", Price: 1999.5, Images: images})
	row.ID = id
	row.CreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return row
}

func TestProductFetch(t *testing.T) {
	ctx := context.Background()
	s, table, _ := newProductStore()
	assert.True(t, s.Loading())

	bad := productRow("", "no id")
	table.On("List", ctx).Return([]models.ProductRow{productRow("2", "B"), bad, productRow("1", "A")}, nil).Once()

	s.Fetch(ctx)

	assert.False(t, s.Loading())
	products := s.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "2", products[0].ID)
	assert.Equal(t, "1", products[1].ID)
}

func TestProductRefreshKeepsLoadingCleared(t *testing.T) {
	ctx := context.Background()
	s, table, _ := newProductStore()

	table.On("List", ctx).Return([]models.ProductRow{productRow("1", "A")}, nil).Once()
	s.Fetch(ctx)
	require.False(t, s.Loading())

	var loadingDuringRefresh bool
	table.On("List", ctx).
		Run(func(mock.Arguments) { loadingDuringRefresh = s.Loading() }).
		Return([]models.ProductRow{productRow("2", "B"), productRow("1", "A")}, nil).
		Once()
	s.Fetch(ctx)

	assert.False(t, loadingDuringRefresh)
	assert.Len(t, s.Products(), 2)
}

func TestProductFetchFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	s, table, _ := newProductStore()

	table.On("List", ctx).Return([]models.ProductRow{productRow("1", "A")}, nil).Once()
	s.Fetch(ctx)

	table.On("List", ctx).Return(nil, errors.New("connection refused")).Once()
	s.Fetch(ctx)

	assert.False(t, s.Loading())
	require.Len(t, s.Products(), 1)
	assert.Equal(t, "A", s.Products()[0].Name)
}

func TestProductAddPrepends(t *testing.T) {
	ctx := context.Background()
	s, table, _ := newProductStore()
	table.On("List", ctx).Return([]models.ProductRow{productRow("1", "A")}, nil).Once()
	s.Fetch(ctx)

	input := models.Product{ID: "ignored", Name: "B", Brand: "Nike", Price: 1999.5}
	table.On("Insert", ctx, models.ToRow(input)).Return(productRow("2", "B"), nil).Once()

	created, err := s.Add(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "2", created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	products := s.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "2", products[0].ID)
	table.AssertExpectations(t)
}

func TestProductAddFailure(t *testing.T) {
	ctx := context.Background()
	s, table, _ := newProductStore()
	table.On("Insert", ctx, mock.Anything).Return(models.ProductRow{}, errors.New("denied")).Once()

	created, err := s.Add(ctx, models.Product{Name: "B", Brand: "Nike"})
	assert.Error(t, err)
	assert.Nil(t, created)
	assert.Empty(t, s.Products())
}

func TestProductUpdateRequiresID(t *testing.T) {
	s, table, _ := newProductStore()

	updated, err := s.Update(context.Background(), models.Product{Name: "A"})
	assert.ErrorIs(t, err, ErrMissingID)
	assert.Nil(t, updated)
	table.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUpdateReplacesByID(t *testing.T) {
	ctx := context.Background()
	s, table, _ := newProductStore()
	table.On("List", ctx).Return([]models.ProductRow{productRow("2", "B"), productRow("1", "A")}, nil).Once()
	s.Fetch(ctx)

	p, ok := s.Get("1")
	require.True(t, ok)
	p.Name = "A2"
	p.IsBestSeller = true

	fresh := productRow("1", "A2")
	fresh.IsBestSeller = true
	table.On("Update", ctx, "1", models.ToRow(p)).Return(fresh, nil).Once()

	updated, err := s.Update(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "A2", updated.Name)

	products := s.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "2", products[0].ID)
	assert.Equal(t, "A2", products[1].Name)
	assert.True(t, products[1].IsBestSeller)
}

func TestProductDeleteCleansUpImages(t *testing.T) {
	ctx := context.Background()
	s, table, storage := newProductStore()
	images := []string{
		"https://cdn.example.com/product-images/1700000000-a.jpg",
		"not a url",
		"https://cdn.example.com/product-images/1700000001-b.jpg",
	}
	table.On("List", ctx).Return([]models.ProductRow{productRow("1", "A", images[0], images[2])}, nil).Once()
	s.Fetch(ctx)

	table.On("Images", ctx, "1").Return(images, nil).Once()
	table.On("Delete", ctx, "1").Return(nil).Once()
	storage.On("Remove", ctx, []string{"1700000000-a.jpg", "1700000001-b.jpg"}).Return(nil).Once()

	require.NoError(t, s.Delete(ctx, "1"))
	assert.Empty(t, s.Products())
	table.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestProductDeleteSurvivesCleanupFailure(t *testing.T) {
	ctx := context.Background()
	s, table, storage := newProductStore()
	table.On("List", ctx).Return([]models.ProductRow{productRow("1", "A"), productRow("2", "B")}, nil).Once()
	s.Fetch(ctx)

	table.On("Images", ctx, "1").Return([]string{"https://cdn.example.com/product-images/a.jpg"}, nil).Once()
	table.On("Delete", ctx, "1").Return(nil).Once()
	storage.On("Remove", ctx, mock.Anything).Return(errors.New("access denied")).Once()

	assert.NoError(t, s.Delete(ctx, "1"))
	products := s.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "2", products[0].ID)
}

func TestProductDeleteLookupFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	s, table, storage := newProductStore()
	table.On("List", ctx).Return([]models.ProductRow{productRow("1", "A")}, nil).Once()
	s.Fetch(ctx)

	table.On("Images", ctx, "1").Return(nil, errors.New("timeout")).Once()
	table.On("Delete", ctx, "1").Return(nil).Once()

	assert.NoError(t, s.Delete(ctx, "1"))
	assert.Empty(t, s.Products())
	storage.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestProductDeleteRowFailure(t *testing.T) {
	ctx := context.Background()
	s, table, storage := newProductStore()
	table.On("List", ctx).Return([]models.ProductRow{productRow("1", "A")}, nil).Once()
	s.Fetch(ctx)

	table.On("Images", ctx, "1").Return([]string{"https://cdn.example.com/product-images/a.jpg"}, nil).Once()
	table.On("Delete", ctx, "1").Return(errors.New("permission denied")).Once()

	err := s.Delete(ctx, "1")
	assert.Error(t, err)
	assert.Len(t, s.Products(), 1)
	storage.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestProductAccessorsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s, table, _ := newProductStore()
	table.On("List", ctx).Return([]models.ProductRow{productRow("1", "A", "https://cdn.example.com/product-images/a.jpg")}, nil).Once()
	s.Fetch(ctx)

	products := s.Products()
	products[0].Name = "changed"
	products[0].Images[0] = "changed"

	p, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, "A", p.Name)
	assert.Equal(t, "https://cdn.example.com/product-images/a.jpg", p.Images[0])

	_, ok = s.Get("missing")
	assert.False(t, ok)
}
