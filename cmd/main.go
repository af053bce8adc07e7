package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	grpchealth "google.golang.org/grpc/health"

	c "github.com/izuleon01/fastserve/internal/cache"
	"github.com/izuleon01/fastserve/internal/config"
	"github.com/izuleon01/fastserve/internal/health"
	h "github.com/izuleon01/fastserve/internal/http"
	"github.com/izuleon01/fastserve/internal/publisher"
	"github.com/izuleon01/fastserve/internal/repository"
	s "github.com/izuleon01/fastserve/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Set up MongoDB connection
	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	repo := repository.NewMongoRepository(mongoDB)
	if ic, ok := repo.(repository.IndexCreator); ok {
		if err := ic.CreateIndexes(ctx); err != nil {
			log.Fatalf("Failed to create indexes: %v", err)
		}
	}

	var (
		cache      c.MenuItemCache = c.Nop{}
		cachePing  health.Pinger
		redisClose = func() error { return nil }
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		redisClose = redisClient.Close
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis ping failed, cache calls will trip the breaker: %v", err)
		} else {
			log.Printf("Redis ping succeeded")
		}
		redisCache := c.NewRedisCache(redisClient)
		cache, cachePing = redisCache, redisCache
	}

	var events publisher.OrderPublisher = publisher.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		events = publisher.NewKafkaPublisher(cfg.KafkaTopic, cfg.KafkaBrokers...)
		log.Printf("Publishing order events to %s on %v", cfg.KafkaTopic, cfg.KafkaBrokers)
	}

	clock := repository.NewStoreClock(mongoDB, cfg.Location)
	service := s.NewMenuService(repo, cache, clock, events)

	// Health reporting for both transports
	healthServer := grpchealth.NewServer()
	checker := health.NewChecker(repository.NewPinger(mongoDB), cachePing, healthServer)
	healthCtx, stopHealth := context.WithCancel(ctx)
	go checker.Run(healthCtx, cfg.HealthInterval)

	router := h.NewRouter(
		h.RouterConfig{MaxRequestBodySize: cfg.MaxRequestBodySize},
		h.NewMenuHandler(service, cfg.RequestTimeout),
		h.NewOrderHandler(service, cfg.RequestTimeout),
		checker,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "fastserve"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}
	grpcServer := health.NewGRPCServer(healthServer)

	go func() {
		log.Printf("HTTP server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	go func() {
		log.Printf("gRPC health listening on port %s", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopHealth()
	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	grpcServer.GracefulStop()

	if err := events.Close(); err != nil {
		log.Printf("failed to close publisher: %v", err)
	}
	if err := redisClose(); err != nil {
		log.Printf("failed to close redis: %v", err)
	}
	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		log.Printf("failed to disconnect MongoDB: %v", err)
	}

	log.Println("server exited")
}
