// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/javajoker/kicks-catalog/internal/catalog"
	"github.com/javajoker/kicks-catalog/internal/config"
	"github.com/javajoker/kicks-catalog/internal/database"
	"github.com/javajoker/kicks-catalog/internal/gateway"
	"github.com/javajoker/kicks-catalog/internal/handlers"
	"github.com/javajoker/kicks-catalog/internal/i18n"
	"github.com/javajoker/kicks-catalog/internal/router"
	"github.com/javajoker/kicks-catalog/internal/services"
	"github.com/javajoker/kicks-catalog/internal/store"
)

func main() {
	envFile := pflag.String("env-file", "", "path to an env file loaded before reading the environment")
	seed := pflag.Bool("seed", true, "create the admin user and default settings when missing")
	pflag.Parse()

	logrus.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.LoadFrom(*envFile)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if cfg.Environment != "production" {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}
	if *seed {
		if err := database.SeedInitialData(db, cfg.Auth); err != nil {
			logrus.WithError(err).Fatal("Failed to seed initial data")
		}
	}

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.WithError(err).Fatal("Failed to initialize i18n")
	}
	logrus.WithField("languages", i18n.GetSupportedLanguages()).Debug("Translations loaded")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	storage, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage")
	}

	var feed gateway.ChangeFeed
	if cfg.Realtime.Enabled {
		realtime := services.NewRealtimeService(cfg)
		defer realtime.Close()
		go realtime.Run(ctx)
		feed = realtime
	} else {
		logrus.Warn("Realtime disabled, brand changes from other writers will not be seen")
	}

	client := gateway.New(db, storage, feed)

	// Load catalog state
	products := store.NewProductStore(client)
	brands := store.NewBrandStore(client)
	sections := store.NewSectionStore(client)

	products.Fetch(ctx)
	sections.Fetch(ctx)
	if err := brands.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("Failed to subscribe to brand changes")
	}
	defer brands.Close()

	prices, err := catalog.NewPriceFormatter(cfg.Storefront.Locale, cfg.Storefront.Currency)
	if err != nil {
		logrus.WithError(err).Fatal("Invalid storefront currency settings")
	}

	// Push change signals to connected storefronts
	live := handlers.NewLiveHandler(router.OriginChecker(cfg.Server.CORSOrigins))
	defer live.Close()
	if feed != nil {
		background := context.WithoutCancel(ctx)
		watches := []struct {
			collection string
			refresh    func()
		}{
			// brands.Start subscribed first, so its refetch runs before the push
			{gateway.BrandsCollection, nil},
			{gateway.ProductsCollection, func() { products.Fetch(background) }},
			{gateway.SettingsCollection, func() { sections.Fetch(background) }},
		}
		for _, w := range watches {
			if err := live.Watch(feed, w.collection, w.refresh); err != nil {
				logrus.WithError(err).WithField("collection", w.collection).Error("Failed to watch collection")
			}
		}
	}

	authService := services.NewAuthService(db, cfg)
	defer authService.OnSessionChange(func(event services.SessionEvent, session *services.Session) {
		logrus.WithFields(logrus.Fields{
			"event":   event,
			"user_id": session.UserID,
			"email":   session.Email,
		}).Info("Admin session changed")
	})()
	adminService := services.NewAdminService(products, brands, sections, storage)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(router.Dependencies{
		Products: products,
		Brands:   brands,
		Sections: sections,
		Auth:     authService,
		Admin:    adminService,
		Live:     live,
		Prices:   prices,
	}, cfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
	stop()

	logrus.Info("Server exited")
}
