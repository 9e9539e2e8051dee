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
	"github.com/travel-atlas/internal/application/notification"
	"github.com/travel-atlas/internal/config"
	"github.com/travel-atlas/internal/infrastructure/dynamo"
	"github.com/travel-atlas/internal/infrastructure/identity"
	jwtinfra "github.com/travel-atlas/internal/infrastructure/jwt"
	redisinfra "github.com/travel-atlas/internal/infrastructure/redis"
	"github.com/travel-atlas/internal/infrastructure/smtp"
	"github.com/travel-atlas/internal/infrastructure/sns"
	transporthttp "github.com/travel-atlas/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	authProvider := identity.NewProvider(identity.ProviderDeps{
		CredentialRepo: dynamo.NewCredentialRepo(dynamoClient, cfg.DynamoTables.Credentials),
		SessionRepo:    dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		Tokens:         jwtProvider,
	})

	notifier, err := newNotifier(cfg)
	if err != nil {
		log.Fatalf("notifier: %v", err)
	}

	deps := &transporthttp.Deps{
		AccountRepo:     dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts),
		DestinationRepo: dynamo.NewDestinationRepo(dynamoClient, cfg.DynamoTables.Destinations),
		Auth:            authProvider,
		Notifier:        notifier,
	}

	// Per-email OTP limiter. Disabled without REDIS_ADDR or when Redis is unreachable.
	if cfg.RedisAddr != "" {
		redisClient := redisinfra.NewClient(cfg)
		ctxPing, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			log.Printf("WARN: redis ping failed, OTP rate limiting disabled: %v", err)
		} else {
			deps.Limiter = redisinfra.NewLimiter(redisClient, cfg.OTPRateLimitWindow, cfg.OTPRateLimitMax)
		}
		cancel()
		defer redisClient.Close()
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s, notifier=%s)", cfg.AppPort, cfg.AppEnv, cfg.Notifier)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}

func newNotifier(cfg *config.Config) (transporthttp.CodeNotifier, error) {
	switch cfg.Notifier {
	case "log", "":
		return notification.NewLogNotifier(cfg.Development()), nil
	case "smtp":
		return notification.NewMailNotifier(smtp.NewMailer(cfg)), nil
	case "sns":
		publisher, err := sns.NewPublisher(cfg)
		if err != nil {
			return nil, err
		}
		return notification.NewTopicNotifier(publisher), nil
	default:
		return nil, fmt.Errorf("unknown NOTIFIER %q", cfg.Notifier)
	}
}
