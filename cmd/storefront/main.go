package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/bean4896/hessen-custom/internal/cache"
	"github.com/bean4896/hessen-custom/internal/catalog"
	h "github.com/bean4896/hessen-custom/internal/http"
	"github.com/bean4896/hessen-custom/internal/payment"
	"github.com/bean4896/hessen-custom/internal/publisher"
	"github.com/bean4896/hessen-custom/internal/repository"
	"github.com/bean4896/hessen-custom/internal/service"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	PostgresCreds   repository.Credentials
	KafkaBrokers    []string
	WebhookSecret   string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:      getEnv("HTTP_PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "storefront"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		PostgresCreds: repository.Credentials{
			Host:              getEnv("POSTGRES_HOST", "localhost"),
			Port:              getEnvInt("POSTGRES_PORT", 5432),
			User:              getEnv("POSTGRES_USER", "storefront"),
			Password:          getEnv("POSTGRES_PASSWORD", "storefront"),
			DBName:            getEnv("POSTGRES_DB", "storefront"),
			MigrationsDirPath: getEnv("MIGRATIONS_DIR", "internal/repository/migrations"),
		},
		KafkaBrokers:    []string{getEnv("KAFKA_BROKER", "localhost:9092")},
		WebhookSecret:   getEnv("PAYMENT_WEBHOOK_SECRET", "whsec_dev"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// Cart storage
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	cartRepo := repository.NewMongoCartRepository(mongoDB)
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	// Order storage
	orderRepo, err := repository.NewPostgresOrderRepository(&cfg.PostgresCreds)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer orderRepo.Close()
	if err := orderRepo.RunMigrations(&cfg.PostgresCreds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Connected to postgres at %s", cfg.PostgresCreds.Host)

	// Domain services
	cat := catalog.Default()
	cartCache := cache.NewRedisCache(redisClient)
	cartService := service.NewCartService(cartRepo, cartCache, cat)
	orderService := service.NewOrderService(orderRepo)
	processor := payment.NewBreakerProcessor(payment.NewSimulator(payment.RandomOutcome{}))
	reconcileService := service.NewReconcileService(orderRepo, processor)

	// Outbox publisher
	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	poller := publisher.NewOutboxPoller(orderRepo, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)

	// Handlers
	catalogHandler := h.NewCatalogHandler(cat)
	configuratorHandler := h.NewConfiguratorHandler(cat, cache.NewRedisConfigStore(redisClient), cfg.RequestTimeout)
	cartHandler := h.NewCartHandler(cartService, cfg.RequestTimeout)
	orderHandler := h.NewOrderHandler(orderService, cartService, cfg.RequestTimeout)
	paymentHandler := h.NewPaymentHandler(processor, reconcileService, cartService, cfg.WebhookSecret, cfg.RequestTimeout)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)
	r.Use(h.HeaderAuthMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", catalogHandler.GetCatalog)
		r.Post("/quote", catalogHandler.Quote)

		r.Route("/configurator", func(r chi.Router) {
			r.Get("/", configuratorHandler.GetConfiguration)
			r.Put("/select", configuratorHandler.SelectOption)
			r.Put("/toggle", configuratorHandler.ToggleOption)
			r.Post("/reset", configuratorHandler.ResetConfiguration)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{item_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{item_id}", cartHandler.RemoveItem)
		})

		r.Post("/payment-intent", paymentHandler.CreateIntentFromCart)
		r.Post("/confirm-payment", paymentHandler.ConfirmPayment)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/", orderHandler.ListOrders)
			r.Get("/{order_id}", orderHandler.GetOrder)
			r.Get("/payment/{payment_ref}", orderHandler.GetOrderByPaymentRef)
		})
	})

	r.Post("/webhooks/payment", paymentHandler.Webhook)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	mongoDB.Client().Disconnect(ctx)
	log.Println("server exited")
}
