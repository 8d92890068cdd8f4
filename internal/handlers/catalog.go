// internal/handlers/catalog.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/kicks-catalog/internal/catalog"
	"github.com/javajoker/kicks-catalog/internal/models"
	"github.com/javajoker/kicks-catalog/internal/store"
	"github.com/javajoker/kicks-catalog/internal/utils"
)

type CatalogHandler struct {
	products      *store.ProductStore
	brands        *store.BrandStore
	sections      *store.SectionStore
	prices        *catalog.PriceFormatter
	whatsAppPhone string
}

type CatalogResponse struct {
	Loading  bool              `json:"loading"`
	Hero     []models.Product  `json:"hero"`
	Sections []catalog.Section `json:"sections"`
	Order    []string          `json:"order"`
}

type ProductDetail struct {
	models.Product
	FormattedPrice string `json:"formatted_price"`
	CheckoutURL    string `json:"checkout_url"`
}

func NewCatalogHandler(products *store.ProductStore, brands *store.BrandStore, sections *store.SectionStore, prices *catalog.PriceFormatter, whatsAppPhone string) *CatalogHandler {
	return &CatalogHandler{
		products:      products,
		brands:        brands,
		sections:      sections,
		prices:        prices,
		whatsAppPhone: whatsAppPhone,
	}
}

func (h *CatalogHandler) loading() bool {
	return h.products.Loading() || h.brands.Loading() || h.sections.Loading()
}

// GET /health
func (h *CatalogHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"loading": h.loading(),
	})
}

// GET /v1/catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	products := h.products.Products()
	order := h.sections.Order()

	resp := CatalogResponse{
		Loading:  h.loading(),
		Hero:     catalog.Hero(products),
		Sections: catalog.BuildSections(products, h.brands.Brands(), order),
		Order:    order,
	}

	if body, err := json.Marshal(resp); err == nil {
		etag := fmt.Sprintf(`"%s"`, utils.HashBytes(body)[:32])
		c.Header("ETag", etag)
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	utils.SuccessResponse(c, resp)
}

// GET /v1/products
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	products := h.products.Products()

	switch section := c.Query("section"); section {
	case "":
	case models.SectionBestSellers:
		products = catalog.BestSellers(products)
	case models.SectionMaleCatalog:
		products = catalog.MaleCatalog(products)
	case models.SectionFemaleCatalog:
		products = catalog.FemaleCatalog(products)
	default:
		products = catalog.ByBrand(products, []string{section})[section]
	}

	if brand := c.Query("brand"); brand != "" {
		products = slices.DeleteFunc(products, func(p models.Product) bool { return p.Brand != brand })
	}

	utils.PaginatedResponse(c, utils.Paginate(products, params))
}

// GET /v1/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, ok := h.products.Get(c.Param("id"))
	if !ok {
		utils.NotFoundResponse(c, "product")
		return
	}

	utils.SuccessResponse(c, ProductDetail{
		Product:        p,
		FormattedPrice: h.prices.Format(p.Price),
		CheckoutURL:    catalog.CheckoutURL(h.whatsAppPhone, p),
	})
}

// GET /v1/brands
func (h *CatalogHandler) GetBrands(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"brands":  h.brands.Brands(),
		"loading": h.brands.Loading(),
	})
}

// GET /v1/sections
func (h *CatalogHandler) GetSections(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"order":   h.sections.Order(),
		"loading": h.sections.Loading(),
	})
}
