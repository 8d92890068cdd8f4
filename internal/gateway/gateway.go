// internal/gateway/gateway.go
package gateway

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/javajoker/kicks-catalog/internal/models"
)

// Collection names as seen by the change feed.
const (
	ProductsCollection = "products"
	BrandsCollection   = "brands"
	SettingsCollection = "settings"
)

var ErrNotFound = errors.New("record not found")

type ProductTable interface {
	List(ctx context.Context) ([]models.ProductRow, error)
	Insert(ctx context.Context, row models.ProductRow) (models.ProductRow, error)
	Update(ctx context.Context, id string, row models.ProductRow) (models.ProductRow, error)
	Delete(ctx context.Context, id string) error
	Images(ctx context.Context, id string) ([]string, error)
	ExistsWithBrand(ctx context.Context, brand string) (bool, error)
}

type BrandTable interface {
	List(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
}

type SettingsTable interface {
	LoadSectionOrder(ctx context.Context) ([]byte, error)
	SaveSectionOrder(ctx context.Context, order []string) error
}

type ObjectStorage interface {
	Bucket() string
	Upload(ctx context.Context, path, contentType string, body []byte) (string, error)
	PublicURL(path string) string
	Remove(ctx context.Context, paths []string) error
}

// ChangeFeed delivers a payload-free "something changed" signal per collection.
type ChangeFeed interface {
	Subscribe(collection string, onChange func()) (Subscription, error)
}

type Subscription interface {
	Unsubscribe()
}

// Client is the process-wide handle on the backend. It is built once at
// startup and handed to every store.
type Client struct {
	Products ProductTable
	Brands   BrandTable
	Settings SettingsTable
	Storage  ObjectStorage
	Feed     ChangeFeed
}

func New(db *gorm.DB, storage ObjectStorage, feed ChangeFeed) *Client {
	return &Client{
		Products: NewProductTable(db),
		Brands:   NewBrandTable(db),
		Settings: NewSettingsTable(db),
		Storage:  storage,
		Feed:     feed,
	}
}
