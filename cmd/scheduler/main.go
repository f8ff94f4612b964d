package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appbank/credit-engine/internal/client"
	"github.com/appbank/credit-engine/internal/config"
	"github.com/appbank/credit-engine/internal/repository"
	"github.com/appbank/credit-engine/internal/service"
	"github.com/appbank/credit-engine/pkg/clock"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// The billing scheduler assumes a single running instance; the per-card redis
// locks only soften, not replace, that assumption.
func main() {
	log.Println("Starting billing scheduler...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	creditCardRepo := repository.NewCreditCardRepository(db)
	consumptionClient := client.NewConsumptionClient(cfg.Services.ConsumptionURL, cfg.Services.Timeout)

	billingService := service.NewBillingService(creditCardRepo, consumptionClient, redisClient, clock.System(), cfg)

	// Initialize cron scheduler in the configured timezone; cron computes the
	// delay to the next occurrence of the billing hour on its own.
	c := cron.New(cron.WithSeconds(), cron.WithLocation(cfg.GetSchedulerLocation()))

	spec := fmt.Sprintf("0 0 %d * * *", cfg.Scheduler.BillingHour)
	_, err = c.AddFunc(spec, func() {
		log.Println("Running daily credit card billing job...")
		if err := billingService.Run(context.Background()); err != nil {
			log.Printf("Daily billing job failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Error scheduling billing job: %v", err)
	}

	c.Start()
	log.Printf("Scheduler started, billing runs daily at %02d:00 %s", cfg.Scheduler.BillingHour, cfg.Scheduler.Timezone)

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	// Stop returns a context that completes when the in-flight job finishes.
	<-c.Stop().Done()
	log.Println("Scheduler stopped")
}
