package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	appcache "github.com/vipinyadav01/zero-fashion/internal/cache"
	"github.com/vipinyadav01/zero-fashion/internal/cart"
	"github.com/vipinyadav01/zero-fashion/internal/catalog"
	"github.com/vipinyadav01/zero-fashion/internal/checkout"
	h "github.com/vipinyadav01/zero-fashion/internal/http"
	"github.com/vipinyadav01/zero-fashion/internal/orders"
	"github.com/vipinyadav01/zero-fashion/internal/payment"
	"github.com/vipinyadav01/zero-fashion/internal/publisher"
	"github.com/vipinyadav01/zero-fashion/internal/wishlist"
)

type Config struct {
	HTTPPort    string
	MongoURI    string
	MongoDBName string
	RedisAddr   string
	RedisPass   string

	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	MigrationsPath   string

	CatalogDBPath         string
	CatalogMigrationsPath string

	KafkaBrokers string

	HostedProviderURL string
	HostedProviderKey string
	SignedProviderURL string
	SignedProviderKey string
	CheckoutReturnURL string

	AdminToken  string
	DeliveryFee float64

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "storedb"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:   getEnv("REDIS_PASSWORD", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnv("POSTGRES_DB", "ordersdb"),
		MigrationsPath:   getEnv("ORDERS_MIGRATIONS_PATH", "internal/orders/migrations"),

		CatalogDBPath:         getEnv("CATALOG_DB_PATH", "catalog.db"),
		CatalogMigrationsPath: getEnv("CATALOG_MIGRATIONS_PATH", "internal/catalog/migrations"),

		KafkaBrokers: getEnv("KAFKA_BROKERS", "localhost:9092"),

		HostedProviderURL: getEnv("HOSTED_PROVIDER_URL", "https://api.hosted-payments.example"),
		HostedProviderKey: getEnv("HOSTED_PROVIDER_KEY", ""),
		SignedProviderURL: getEnv("SIGNED_PROVIDER_URL", "https://api.signed-payments.example"),
		SignedProviderKey: getEnv("SIGNED_PROVIDER_KEY", ""),
		CheckoutReturnURL: getEnv("CHECKOUT_RETURN_URL", "http://localhost:3000"),

		AdminToken:  getEnv("ADMIN_TOKEN", ""),
		DeliveryFee: getEnvFloat("DELIVERY_FEE", 10),

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

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// tokenIdentities is a development resolver: the admin token comes from the
// environment, any other token is treated as an opaque user id.
// In production: validate a JWT here and read the claims.
type tokenIdentities struct {
	adminToken string
}

func (t *tokenIdentities) Resolve(_ context.Context, token string) (*h.Identity, error) {
	if t.adminToken != "" && token == t.adminToken {
		return &h.Identity{UserID: "admin", Admin: true}, nil
	}
	return &h.Identity{UserID: token}, nil
}

func main() {
	cfg := loadConfig()
	ctx := context.Background()

	// MongoDB: carts and wishlists
	mongoDB, err := cart.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	cartRepo := cart.NewMongoRepository(mongoDB)
	wishlistRepo := wishlist.NewMongoRepository(mongoDB)

	type indexer interface {
		CreateIndexes(context.Context) error
	}
	for _, repo := range []interface{}{cartRepo, wishlistRepo} {
		if ix, ok := repo.(indexer); ok {
			if err := ix.CreateIndexes(ctx); err != nil {
				log.Fatalf("Failed to create indexes: %v", err)
			}
		}
	}

	// Redis: cart read cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})
	defer redisClient.Close()

	cartCache := appcache.NewRedisCache(redisClient)
	cartService := cart.NewService(cartRepo, cartCache)
	wishlistService := wishlist.NewService(wishlistRepo)

	// SQLite: product catalog
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog: %v", err)
	}
	defer catalogRepo.Close()
	if err := catalogRepo.RunMigrations(cfg.CatalogMigrationsPath); err != nil {
		log.Fatalf("Failed to migrate catalog: %v", err)
	}

	// Postgres: order ledger with outbox
	cred := &orders.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	ledger, err := orders.NewRepository(cred)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer ledger.Close()
	if err := ledger.RunMigrations(cred); err != nil {
		log.Fatalf("Failed to migrate orders: %v", err)
	}
	log.Printf("Connected to Postgres at %s:%d", cfg.PostgresHost, cfg.PostgresPort)

	// Payment adapters
	hostedClient := payment.NewClient(cfg.HostedProviderURL, cfg.HostedProviderKey, 15*time.Second)
	signedClient := payment.NewClient(cfg.SignedProviderURL, cfg.SignedProviderKey, 15*time.Second)
	successURL := cfg.CheckoutReturnURL + "/verify"
	cancelURL := cfg.CheckoutReturnURL + "/cart"

	checkoutService := checkout.NewService(
		cartService,
		catalogRepo,
		ledger,
		cfg.DeliveryFee,
		payment.NewCashOnDelivery(),
		payment.NewHostedCheckout(hostedClient, cfg.DeliveryFee, successURL, cancelURL),
		payment.NewSignedOrder(signedClient),
	)

	// Outbox poller: order lifecycle events to Kafka
	pollerCtx, stopPoller := context.WithCancel(ctx)
	poller := publisher.NewOutboxPoller(ledger, strings.Split(cfg.KafkaBrokers, ",")...)
	go poller.Run(pollerCtx)
	defer func() {
		stopPoller()
		if err := poller.Close(); err != nil {
			log.Printf("failed to close outbox poller: %v", err)
		}
	}()

	identities := &tokenIdentities{adminToken: cfg.AdminToken}
	router := h.NewRouter(
		identities,
		h.NewCartHandler(cartService, cfg.RequestTimeout),
		h.NewOrderHandler(checkoutService, cfg.RequestTimeout),
		h.NewWishlistHandler(wishlistService, cfg.RequestTimeout),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("API server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
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
