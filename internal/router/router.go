// internal/router/router.go
package router

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/kicks-catalog/internal/catalog"
	"github.com/javajoker/kicks-catalog/internal/config"
	"github.com/javajoker/kicks-catalog/internal/handlers"
	"github.com/javajoker/kicks-catalog/internal/middleware"
	"github.com/javajoker/kicks-catalog/internal/services"
	"github.com/javajoker/kicks-catalog/internal/store"
)

// Dependencies are the long-lived objects built at startup.
type Dependencies struct {
	Products *store.ProductStore
	Brands   *store.BrandStore
	Sections *store.SectionStore
	Auth     *services.AuthService
	Admin    *services.AdminService
	Live     *handlers.LiveHandler
	Prices   *catalog.PriceFormatter
}

func Initialize(deps Dependencies, cfg *config.Config) *gin.Engine {
	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(deps.Products, deps.Brands, deps.Sections, deps.Prices, cfg.Storefront.WhatsAppPhone)
	authHandler := handlers.NewAuthHandler(deps.Auth, cfg.Auth.MinPasswordLength)
	adminHandler := handlers.NewAdminHandler(deps.Admin, cfg.Storage.MaxImageSize)

	live := deps.Live
	if live == nil {
		live = handlers.NewLiveHandler(OriginChecker(cfg.Server.CORSOrigins))
	}

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.I18nMiddleware())

	// Health check
	r.GET("/health", catalogHandler.Health)

	// API v1 routes
	v1 := r.Group("/v1")
	v1.Use(middleware.GeneralRateLimit())
	{
		// Storefront routes
		v1.GET("/catalog", catalogHandler.GetCatalog)
		v1.GET("/catalog/live", live.Serve)
		v1.GET("/products", catalogHandler.GetProducts)
		v1.GET("/products/:id", catalogHandler.GetProduct)
		v1.GET("/brands", catalogHandler.GetBrands)
		v1.GET("/sections", catalogHandler.GetSections)

		// Authentication routes
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/session", authHandler.GetSession)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(deps.Auth), middleware.AuditLogMiddleware())
		{
			products := admin.Group("/products")
			{
				products.POST("", adminHandler.CreateProduct)
				products.POST("/images", middleware.UploadRateLimit(), adminHandler.UploadImages)
				products.PUT("/:id", adminHandler.UpdateProduct)
				products.DELETE("/:id", adminHandler.DeleteProduct)
			}

			brands := admin.Group("/brands")
			{
				brands.POST("", adminHandler.CreateBrand)
				brands.DELETE("/:name", adminHandler.DeleteBrand)
			}

			sections := admin.Group("/sections")
			{
				sections.PUT("", adminHandler.UpdateSections)
				sections.PUT("/move", adminHandler.MoveSection)
			}

			admin.PUT("/password", middleware.AuthRateLimit(), authHandler.UpdatePassword)
		}
	}

	// Static file serving for locally stored images
	if cfg.Storage.AccessKeyID == "" {
		r.Static("/uploads", cfg.Storage.LocalDir)
	}

	return r
}

// OriginChecker accepts websocket upgrades from the configured CORS origins.
func OriginChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}
}
