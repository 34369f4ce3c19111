package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"stockchecker/configs"
	"stockchecker/internal/database"
	deliveryhttp "stockchecker/internal/delivery/http"
	"stockchecker/internal/infra"
	"stockchecker/internal/repository"
	"stockchecker/internal/service"
	"stockchecker/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	ctx := context.Background()

	// Initialize database
	db, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize collaborators
	hasher := service.NewBcryptIdentityHasher()
	stockRepo := repository.NewStockRepository(db)
	userRepo := repository.NewUserRepository(db, hasher)
	likeService := service.NewLikeService(stockRepo, userRepo)
	priceService := service.NewPriceService(cfg.Price.ProxyURL)
	quoteService := usecase.NewQuoteService(stockRepo, likeService, priceService)

	// Like-count reconciliation audit
	scheduler := infra.NewScheduler(stockRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start reconciliation scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Initialize HTTP server
	e := echo.New()
	e.HideBanner = true

	deliveryhttp.SetupRoutes(e, &deliveryhttp.RouterConfig{
		StockHandler: deliveryhttp.NewStockHandler(quoteService),
		DB:           db,
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Stock price checker starting on %s (env: %s)", addr, cfg.Server.Env)
	log.Printf("Price proxy: %s", cfg.Price.ProxyURL)

	// Run server in goroutine
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}
