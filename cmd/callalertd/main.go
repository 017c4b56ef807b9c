package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"call-alert-backend/config"
	"call-alert-backend/internal/api"
	"call-alert-backend/internal/notification"
	"call-alert-backend/internal/store"
	"call-alert-backend/internal/vapid"
)

func main() {
	// Setup logger
	log.SetPrefix("call-alert-backend ")
	log.SetFlags(log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// No config file; run from environment variables alone.
		configPath = ""
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	log.Printf("configuration loaded")

	// Initialize the VAPID key manager. Generates and logs a keypair
	// when none is configured.
	keys, err := vapid.NewManager(&cfg.Push)
	if err != nil {
		log.Fatalf("failed to initialize VAPID keys: %v", err)
	}

	// Wire the subscription store and the dispatcher.
	subStore := store.NewMemoryStore()
	dispatcher := notification.NewDispatcher(
		subStore,
		keys,
		time.Duration(cfg.Push.SendTimeoutSeconds)*time.Second,
	)

	// Initialize router
	handler := api.NewHandler(subStore, dispatcher, keys, cfg.Webhook.Token)
	router := api.NewRouter(handler, &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		log.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	log.Println("shutdown signal received, stopping server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP server Shutdown: %v", err)
	}

	log.Println("server gracefully stopped")
}
