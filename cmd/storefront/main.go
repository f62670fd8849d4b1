package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/palermo-rentals/storefront/internal/api"
	"github.com/palermo-rentals/storefront/internal/availability"
	"github.com/palermo-rentals/storefront/internal/catalog"
	"github.com/palermo-rentals/storefront/internal/checkout"
	"github.com/palermo-rentals/storefront/internal/events"
	h "github.com/palermo-rentals/storefront/internal/http"
	"github.com/palermo-rentals/storefront/internal/session"
	"github.com/palermo-rentals/storefront/internal/session/cache"
	"github.com/palermo-rentals/storefront/internal/session/repository"
)

type Config struct {
	HTTPPort        string
	BookingAPIURL   string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	KafkaBrokers    string
	KafkaTopic      string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		BookingAPIURL:   getEnv("BOOKING_API_URL", "http://localhost:3000"),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDBName:     getEnv("MONGO_DB_NAME", "storefront"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:      getEnv("KAFKA_TOPIC", "booking-confirmed"),
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

func main() {
	godotenv.Load()
	cfg := loadConfig()
	ctx := context.Background()

	client := api.NewClient(cfg.BookingAPIURL, 10*time.Second)

	catalogStore := catalog.NewStore(client)
	if err := catalogStore.Load(ctx); err != nil {
		// The storefront still comes up; the catalog can be reloaded
		// via POST /api/v1/catalog/reload once the backend is reachable.
		log.Printf("initial catalog load failed: %v", err)
	} else {
		log.Printf("catalog loaded: %d products", len(catalogStore.Products()))
	}

	var repo session.SnapshotRepository
	if cfg.MongoURI != "" {
		mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer mongoDB.Client().Disconnect(ctx)
		repo = repository.NewMongoRepository(mongoDB)
		log.Printf("Connected to MongoDB at %s", cfg.MongoURI)
	} else {
		repo = repository.NewMemoryRepository()
		log.Printf("MONGO_URI not set, sessions held in memory only")
	}

	var snapCache session.SnapshotCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis connection failed:", err)
		}
		snapCache = cache.NewRedisCache(redisClient)
		log.Printf("Redis ping succeeded")
	}

	var publisher checkout.EventPublisher
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing booking events to %s", cfg.KafkaTopic)
	}

	sessions := session.NewManager(repo, snapCache, catalogStore)
	availabilityService := availability.NewService(client)
	flow := checkout.NewFlow(client, publisher)

	catalogHandler := h.NewCatalogHandler(catalogStore)
	availabilityHandler := h.NewAvailabilityHandler(availabilityService)
	cartHandler := h.NewCartHandler(sessions)
	checkoutHandler := h.NewCheckoutHandler(sessions, flow)
	confirmationHandler := h.NewConfirmationHandler(sessions)
	rentalsHandler := h.NewRentalsHandler(client)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalogHandler.List)
		r.Get("/products/{id}", catalogHandler.GetByID)
		r.Post("/catalog/reload", catalogHandler.Reload)
		r.Get("/availability", availabilityHandler.Get)
		r.Get("/availability/last", availabilityHandler.Last)

		r.Patch("/rentals/{id}/cancel", rentalsHandler.Cancel)
		r.Patch("/rentals/{id}/cancel-storm", rentalsHandler.CancelByStorm)

		r.Group(func(r chi.Router) {
			r.Use(h.SessionMiddleware(sessions))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.Get)
				r.Delete("/", cartHandler.Clear)
				r.Post("/items", cartHandler.AddItem)
				r.Delete("/items/{itemID}", cartHandler.RemoveItem)
				r.Put("/items/{itemID}/persons", cartHandler.UpdatePersons)
				r.Put("/items/{itemID}/reservation", cartHandler.SetReservation)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", checkoutHandler.GetInfo)
				r.Post("/", checkoutHandler.Submit)
				r.Delete("/", checkoutHandler.Reset)
				r.Put("/customer", checkoutHandler.UpdateCustomer)
				r.Put("/payment-method", checkoutHandler.SetPaymentMethod)
			})

			r.Get("/confirmation", confirmationHandler.Get)
			r.Delete("/confirmation", confirmationHandler.Clear)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
