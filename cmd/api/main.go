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

	"github.com/go-verify-reset/internal/application/verification"
	"github.com/go-verify-reset/internal/config"
	"github.com/go-verify-reset/internal/domain"
	"github.com/go-verify-reset/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-verify-reset/internal/infrastructure/jwt"
	"github.com/go-verify-reset/internal/infrastructure/smtp"
	"github.com/go-verify-reset/internal/infrastructure/sns"
	"github.com/go-verify-reset/internal/pkg/id"
	"github.com/go-verify-reset/internal/pkg/password"
	transporthttp "github.com/go-verify-reset/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)
	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — graceful fallback).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	if cfg.AppEnv == "development" && cfg.DevSeedEmail != "" {
		seedDevUser(context.Background(), userRepo, cfg)
	}

	deps := &transporthttp.Deps{
		UserRepo:    userRepo,
		Mailer:      mailer,
		SMSSender:   smsSender,
		JWTProvider: jwtProvider,
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
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
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

// seedDevUser creates an unverified development account so the verification
// flows can be exercised against a fresh table. The verification token pair
// is logged instead of mailed.
func seedDevUser(ctx context.Context, repo *dynamo.UserRepo, cfg *config.Config) {
	if existing, err := repo.Find(ctx, map[string]string{"email": cfg.DevSeedEmail}); err == nil && len(existing) > 0 {
		return
	}

	hasher := password.NewHasher()
	hash, err := hasher.Hash("changeme")
	if err != nil {
		log.Printf("WARN: dev seed user: %v", err)
		return
	}

	u := &domain.User{
		UserID:       id.New(),
		Username:     "dev",
		Email:        cfg.DevSeedEmail,
		PasswordHash: hash,
		Enable:       1,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := verification.AddVerification(u, verification.Config{
		LongTokenLen:     cfg.LongTokenLen,
		ShortTokenLen:    cfg.ShortTokenLen,
		ShortTokenDigits: cfg.ShortTokenDigits,
		VerifyDelay:      cfg.VerifyDelay,
	}); err != nil {
		log.Printf("WARN: dev seed user: %v", err)
		return
	}
	if err := repo.Put(ctx, u); err != nil {
		log.Printf("WARN: dev seed user: %v", err)
		return
	}
	log.Printf("Dev seed user %s created (verify token %s, code %s)", cfg.DevSeedEmail, *u.VerifyToken, *u.VerifyShortToken)
}
