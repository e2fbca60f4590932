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

	"shopassist-backend/internal/config"
	"shopassist-backend/internal/database"
	"shopassist-backend/internal/handlers"
	"shopassist-backend/internal/middleware"
	"shopassist-backend/internal/router"
	"shopassist-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting ShopAssist Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	upstreamTimeout := time.Duration(cfg.UpstreamTimeoutSecs) * time.Second

	// ──── Step 2: Initialize Completion Provider ────
	var provider services.CompletionProvider
	switch cfg.AIProvider {
	case "gemini":
		geminiProvider, err := services.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel, upstreamTimeout)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer geminiProvider.Close()
		provider = geminiProvider
		log.Printf("✓ Gemini client initialized (%s)", cfg.GeminiModel)
	default:
		openaiProvider, err := services.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, upstreamTimeout)
		if err != nil {
			log.Fatalf("✗ OpenAI client initialization failed: %v", err)
		}
		provider = openaiProvider
		log.Printf("✓ OpenAI client initialized (%s)", cfg.OpenAIModel)
	}

	chatService := services.NewChatService(provider)

	// ──── Step 3: Initialize Rate Counter Store ────
	var counterStore middleware.CounterStore
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("✗ Redis connection failed: %v", err)
		}
		defer redisClient.Close()
		counterStore = middleware.NewRedisCounterStore(redisClient)
		log.Println("✓ Redis connected (shared rate counters)")
	} else {
		counterStore = middleware.NewMemoryCounterStore()
		log.Println("✓ In-memory rate counters initialized")
	}

	chatLimiter := middleware.NewRateLimiter(
		counterStore,
		cfg.ChatRateLimit,
		time.Duration(cfg.ChatRateWindowSecs)*time.Second,
	)

	// ──── Step 4: Start HTTP Server ────
	chatHandler := handlers.NewChatHandler(chatService)
	r := router.New(chatHandler, chatLimiter, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ ShopAssist Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  Chat: POST http://localhost:%s/chat", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
