package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/kicks-catalog/internal/gateway"
)

func newBrandStore(feed gateway.ChangeFeed) (*BrandStore, *mockBrandTable, *mockProductTable) {
	brands := &mockBrandTable{}
	products := &mockProductTable{}
	s := NewBrandStore(&gateway.Client{Brands: brands, Products: products, Feed: feed})
	return s, brands, products
}

func TestBrandFetch(t *testing.T) {
	ctx := context.Background()
	s, table, _ := newBrandStore(nil)
	assert.True(t, s.Loading())

	table.On("List", ctx).Return([]string{"Adidas", "Nike"}, nil).Once()
	s.Fetch(ctx)
	assert.False(t, s.Loading())
	assert.Equal(t, []string{"Adidas", "Nike"}, s.Brands())

	table.On("List", ctx).Return(nil, errors.New("offline")).Once()
	s.Fetch(ctx)
	assert.False(t, s.Loading())
	assert.Empty(t, s.Brands())
}

func TestBrandStartRefreshesOnChange(t *testing.T) {
	ctx := context.Background()
	feed := &fakeFeed{}
	s, table, _ := newBrandStore(feed)

	table.On("List", mock.Anything).Return([]string{"Nike"}, nil).Once()
	require.NoError(t, s.Start(ctx))
	assert.Equal(t, []string{"Nike"}, s.Brands())

	table.On("List", mock.Anything).Return([]string{"Nike", "Puma"}, nil).Once()
	feed.fire(gateway.BrandsCollection)
	assert.Equal(t, []string{"Nike", "Puma"}, s.Brands())

	// product changes do not concern the brand list
	feed.fire(gateway.ProductsCollection)
	table.AssertNumberOfCalls(t, "List", 2)

	s.Close()
	s.Close()
}

func TestBrandStartSubscribeFailure(t *testing.T) {
	ctx := context.Background()
	s, table, _ := newBrandStore(&fakeFeed{err: errors.New("listener closed")})
	table.On("List", ctx).Return([]string{"Nike"}, nil).Once()

	err := s.Start(ctx)
	assert.Error(t, err)
	assert.Equal(t, []string{"Nike"}, s.Brands())
}

func TestBrandAdd(t *testing.T) {
	ctx := context.Background()
	s, table, _ := newBrandStore(nil)

	table.On("Insert", ctx, "Asics").Return(nil).Once()
	require.NoError(t, s.Add(ctx, "  Asics "))

	// the list is only refreshed by the change feed
	assert.Empty(t, s.Brands())

	table.On("Insert", ctx, "Nike").Return(errors.New("duplicate key")).Once()
	assert.Error(t, s.Add(ctx, "Nike"))

	assert.ErrorIs(t, s.Add(ctx, "   "), ErrInvalidBrandName)
	table.AssertExpectations(t)
}

func TestBrandDeleteInUse(t *testing.T) {
	ctx := context.Background()
	s, table, products := newBrandStore(nil)
	table.On("List", ctx).Return([]string{"Adidas", "Nike"}, nil).Once()
	s.Fetch(ctx)

	products.On("ExistsWithBrand", ctx, "Nike").Return(true, nil).Once()

	err := s.Delete(ctx, "Nike")
	assert.ErrorIs(t, err, ErrBrandInUse)
	assert.Equal(t, []string{"Adidas", "Nike"}, s.Brands())
	table.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBrandDeleteCheckFailure(t *testing.T) {
	ctx := context.Background()
	s, table, products := newBrandStore(nil)
	checkErr := errors.New("timeout")
	products.On("ExistsWithBrand", ctx, "Nike").Return(false, checkErr).Once()

	err := s.Delete(ctx, "Nike")
	assert.ErrorIs(t, err, checkErr)
	assert.NotErrorIs(t, err, ErrBrandInUse)
	table.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestBrandDelete(t *testing.T) {
	ctx := context.Background()
	s, table, products := newBrandStore(nil)
	table.On("List", ctx).Return([]string{"Adidas", "Nike"}, nil).Once()
	s.Fetch(ctx)

	products.On("ExistsWithBrand", ctx, "Nike").Return(false, nil).Once()
	table.On("Delete", ctx, "Nike").Return(nil).Once()

	require.NoError(t, s.Delete(ctx, "Nike"))
	assert.Equal(t, []string{"Adidas"}, s.Brands())
}

func TestBrandDeleteTrimsName(t *testing.T) {
	ctx := context.Background()
	s, table, products := newBrandStore(nil)
	table.On("List", ctx).Return([]string{"Adidas", "Nike"}, nil).Once()
	s.Fetch(ctx)

	products.On("ExistsWithBrand", ctx, "Nike").Return(false, nil).Once()
	table.On("Delete", ctx, "Nike").Return(nil).Once()

	require.NoError(t, s.Delete(ctx, " Nike "))
	assert.Equal(t, []string{"Adidas"}, s.Brands())

	assert.ErrorIs(t, s.Delete(ctx, "  "), ErrInvalidBrandName)
	products.AssertNumberOfCalls(t, "ExistsWithBrand", 1)
	table.AssertExpectations(t)
}
