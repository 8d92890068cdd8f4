package gateway

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/kicks-catalog/internal/models"
)

type GatewayTestSuite struct {
	suite.Suite
	db     *gorm.DB
	client *Client
	ctx    context.Context
}

func (s *GatewayTestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&models.ProductRow{}, &models.BrandRow{}, &models.Settings{}))

	s.db = db
	s.client = New(db, nil, nil)
	s.ctx = context.Background()
}

func (s *GatewayTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (s *GatewayTestSuite) insertProduct(name, brand string, createdAt time.Time) models.ProductRow {
	row := models.ToRow(models.Product{
		Name:   name,
		Brand:  brand,
		Price:  100,
		Images: []string{"https://cdn.example.com/product-images/" + name + ".jpg"},
	})
	row.ID = uuid.NewString()
	row.CreatedAt = createdAt
	s.Require().NoError(s.db.Create(&row).Error)
	return row
}

func (s *GatewayTestSuite) TestProductsListNewestFirst() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.insertProduct("old", "Nike", base)
	s.insertProduct("new", "Nike", base.Add(time.Hour))

	rows, err := s.client.Products.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal("new", rows[0].Name)
	s.Equal("old", rows[1].Name)
	s.Equal([]string{"https://cdn.example.com/product-images/new.jpg"}, rows[0].Images)
}

func (s *GatewayTestSuite) TestProductInsertAssignsServerFields() {
	row := models.ToRow(models.Product{Name: "Air Zoom", Brand: "Nike", Price: 2500, IsBestSeller: true})
	row.ID = "client-supplied"

	created, err := s.client.Products.Insert(s.ctx, row)
	s.Require().NoError(err)
	s.NotEmpty(created.ID)
	s.NotEqual("client-supplied", created.ID)
	s.False(created.CreatedAt.IsZero())
	s.True(created.IsBestSeller)
}

func (s *GatewayTestSuite) TestProductUpdateWritesZeroValues() {
	created := s.insertProduct("Air Zoom", "Nike", time.Now())

	p, err := models.FromRow(created)
	s.Require().NoError(err)
	p.IsBestSeller = false
	p.Price = 0
	p.Images = []string{}
	p.Name = "Air Zoom 2"

	updated, err := s.client.Products.Update(s.ctx, created.ID, models.ToRow(p))
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID)
	s.Equal("Air Zoom 2", updated.Name)
	s.Equal(float64(0), updated.Price)
	s.Empty(updated.Images)
	s.WithinDuration(created.CreatedAt, updated.CreatedAt, time.Second)
}

func (s *GatewayTestSuite) TestProductUpdateMissing() {
	_, err := s.client.Products.Update(s.ctx, "missing", models.ToRow(models.Product{Name: "x", Brand: "y"}))
	s.ErrorIs(err, ErrNotFound)
}

func (s *GatewayTestSuite) TestProductImagesAndDelete() {
	created := s.insertProduct("Air", "Nike", time.Now())

	images, err := s.client.Products.Images(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.Images, images)

	s.Require().NoError(s.client.Products.Delete(s.ctx, created.ID))

	_, err = s.client.Products.Images(s.ctx, created.ID)
	s.ErrorIs(err, ErrNotFound)

	// deleting an absent row is not an error
	s.NoError(s.client.Products.Delete(s.ctx, created.ID))
}

func (s *GatewayTestSuite) TestProductExistsWithBrand() {
	s.insertProduct("Air", "Nike", time.Now())

	exists, err := s.client.Products.ExistsWithBrand(s.ctx, "Nike")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.client.Products.ExistsWithBrand(s.ctx, "Puma")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *GatewayTestSuite) TestBrands() {
	for _, name := range []string{"Puma", "Adidas", "Nike"} {
		s.Require().NoError(s.client.Brands.Insert(s.ctx, name))
	}

	names, err := s.client.Brands.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Adidas", "Nike", "Puma"}, names)

	s.Error(s.client.Brands.Insert(s.ctx, "Nike"), "duplicate names violate the unique index")

	s.Require().NoError(s.client.Brands.Delete(s.ctx, "Nike"))
	names, err = s.client.Brands.List(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Adidas", "Puma"}, names)

	s.ErrorIs(s.client.Brands.Delete(s.ctx, "Nike"), ErrNotFound)
}

func (s *GatewayTestSuite) TestSettingsRoundTrip() {
	_, err := s.client.Settings.LoadSectionOrder(s.ctx)
	s.ErrorIs(err, ErrNotFound)

	s.Require().NoError(s.client.Settings.SaveSectionOrder(s.ctx, []string{"Nike", "Puma"}))
	s.Require().NoError(s.client.Settings.SaveSectionOrder(s.ctx, []string{"Puma", "Nike"}))

	raw, err := s.client.Settings.LoadSectionOrder(s.ctx)
	s.Require().NoError(err)
	order, err := models.DecodeSectionOrder(raw)
	s.Require().NoError(err)
	s.Equal([]string{"Puma", "Nike"}, order)

	var count int64
	s.db.Model(&models.Settings{}).Count(&count)
	s.Equal(int64(1), count)
}

func (s *GatewayTestSuite) TestSettingsNullOrder() {
	s.Require().NoError(s.db.Exec("INSERT INTO settings (id, section_order) VALUES (1, NULL)").Error)

	// depending on the driver a NULL column either fails to scan or comes
	// back empty; neither may yield a usable order
	raw, err := s.client.Settings.LoadSectionOrder(s.ctx)
	if err == nil {
		_, err = models.DecodeSectionOrder(raw)
	}
	s.Error(err)
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewayTestSuite))
}

func TestObjectPathFromURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"path style", "https://s3.us-east-1.amazonaws.com/product-images/1700000000-shoe.jpg", "1700000000-shoe.jpg", false},
		{"nested", "http://localhost:8080/uploads/product-images/a/b.png", "a/b.png", false},
		{"escaped", "https://cdn.example.com/product-images/air%20zoom.jpg", "air zoom.jpg", false},
		{"relative", "/product-images/x.jpg", "", true},
		{"garbage", "::not a url", "", true},
		{"other bucket", "https://cdn.example.com/avatars/x.jpg", "", true},
		{"bucket only", "https://cdn.example.com/product-images/", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ObjectPathFromURL(tt.url, "product-images")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
