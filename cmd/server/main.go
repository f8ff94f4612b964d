package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appbank/credit-engine/internal/client"
	"github.com/appbank/credit-engine/internal/config"
	"github.com/appbank/credit-engine/internal/handler"
	"github.com/appbank/credit-engine/internal/repository"
	"github.com/appbank/credit-engine/internal/service"
	"github.com/appbank/credit-engine/pkg/clock"
	"github.com/appbank/credit-engine/pkg/response"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repositories
	clientRepo := repository.NewClientRepository(db)
	bankAccountRepo := repository.NewBankAccountRepository(db)
	creditCardRepo := repository.NewCreditCardRepository(db)
	creditRepo := repository.NewCreditRepository(db)

	// Initialize remote service clients
	consumptionClient := client.NewConsumptionClient(cfg.Services.ConsumptionURL, cfg.Services.Timeout)
	paymentClient := client.NewPaymentClient(cfg.Services.PaymentURL, cfg.Services.Timeout)

	// Initialize services
	systemClock := clock.System()
	eligibilityService := service.NewEligibilityService(creditCardRepo, creditRepo, paymentClient, systemClock)
	issuanceService := service.NewIssuanceService(clientRepo, bankAccountRepo, creditCardRepo, creditRepo, eligibilityService, systemClock)
	billingService := service.NewBillingService(creditCardRepo, consumptionClient, redisClient, systemClock, cfg)

	productHandler := handler.NewProductHandler(issuanceService, eligibilityService)
	billingHandler := handler.NewBillingHandler(billingService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	// Setup routes
	router := setupRoutes(productHandler, billingHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(productHandler *handler.ProductHandler, billingHandler *handler.BillingHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/bank-accounts", productHandler.CreateBankAccount).Methods("POST")
	api.HandleFunc("/credit-cards", productHandler.CreateCreditCard).Methods("POST")
	api.HandleFunc("/credits", productHandler.CreateCredit).Methods("POST")
	api.HandleFunc("/credits/fee", productHandler.GetMonthlyFee).Methods("GET")
	api.HandleFunc("/credits/{creditId}", productHandler.DeleteCredit).Methods("DELETE")
	api.HandleFunc("/clients/{clientId}/eligibility", productHandler.GetEligibility).Methods("GET")
	api.HandleFunc("/billing/run", billingHandler.RunDailyTick).Methods("POST")

	return router
}
