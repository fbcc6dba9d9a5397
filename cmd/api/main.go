package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pantry-chef-api/internal/cache"
	"pantry-chef-api/internal/config"
	"pantry-chef-api/internal/handler"
	"pantry-chef-api/internal/llm"
	"pantry-chef-api/internal/middleware"
	"pantry-chef-api/internal/repository"
	"pantry-chef-api/internal/router"
	"pantry-chef-api/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Starting %s %s...", cfg.App.Name, cfg.App.Version)
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize the user and inventory store
	store, err := repository.Open(&cfg.Store)
	if err != nil {
		log.Fatalf("Failed to initialize %s store: %v", cfg.Store.Type, err)
	}
	defer store.Close()
	log.Printf("%s store initialized", store.Backend())

	// Initialize the identity cache, falling back to memory when Redis is unreachable
	var identityCache cache.Cache
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:      cfg.Cache.RedisAddress(),
			Password:  cfg.Cache.RedisPassword,
			DB:        cfg.Cache.RedisDB,
			KeyPrefix: cfg.Cache.RedisPrefix,
		})
		if err != nil {
			log.Printf("Warning: Redis cache unavailable, using memory: %v", err)
		} else {
			identityCache = redisCache
		}
	}
	if identityCache == nil {
		identityCache = cache.NewMemoryCache()
	}
	defer identityCache.Close()
	log.Printf("%s identity cache initialized", identityCache.Backend())

	// Initialize the completion provider (optional)
	var provider llm.Provider
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	provider, err = llm.New(ctx, &cfg.LLM)
	cancel()
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		log.Printf("Warning: no %s credential configured; meal plans will answer 503", cfg.LLM.Provider)
		provider = nil
	case err != nil:
		log.Printf("Warning: %s provider initialization failed: %v", cfg.LLM.Provider, err)
		provider = nil
	default:
		log.Printf("%s completion provider initialized", provider.Name())
		if closer, ok := provider.(llm.Closer); ok {
			defer closer.Close()
		}
	}
	providerName := ""
	if provider != nil {
		providerName = provider.Name()
	}

	// Initialize services
	identityService := service.NewIdentityService(store, identityCache, cfg.Cache.TTL)
	inventoryService := service.NewInventoryService(store)
	mealPlanService := service.NewMealPlanService(provider, inventoryService)

	// Initialize handlers
	healthHandler := handler.New(store, cfg.App.Name, cfg.App.Version)
	inventoryHandler := handler.NewInventoryHandler(identityService, inventoryService)
	mealPlanHandler := handler.NewMealPlanHandler(identityService, mealPlanService)
	userHandler := handler.NewUserHandler(identityService)

	var adminHandler *handler.AdminHandler
	if cfg.App.AdminKey != "" {
		adminHandler = handler.NewAdminHandler(store, identityCache, cfg.App.AdminKey, providerName)
	}

	if cfg.Auth.JWTSecret == "" {
		log.Println("Warning: AUTH_JWT_SECRET is empty; every bearer token will be rejected")
	}
	authMiddleware := middleware.NewAuthMiddleware(middleware.AuthConfig{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.Issuer,
		EmailClaim: cfg.Auth.EmailClaim,
	})

	// Create router
	r := router.New(router.Config{
		Handler:          healthHandler,
		InventoryHandler: inventoryHandler,
		MealPlanHandler:  mealPlanHandler,
		UserHandler:      userHandler,
		AdminHandler:     adminHandler,
		AuthMiddleware:   authMiddleware,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
