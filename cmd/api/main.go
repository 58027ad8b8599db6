package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mbtrace/mbcheckgo/internal/config"
	"github.com/mbtrace/mbcheckgo/internal/handlers"
	"github.com/mbtrace/mbcheckgo/internal/pocket"
	"github.com/mbtrace/mbcheckgo/internal/store"
	"github.com/mbtrace/mbcheckgo/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Using MBCheck directory: %s", cfg.RecordsDir)
	log.Printf("Using Logs directory: %s", cfg.LogsDir)
	log.Printf("Using Users file: %s", cfg.UsersFile)

	// 2. Prepare data directories
	if err := os.MkdirAll(cfg.LogsDir, 0o755); err != nil {
		log.Fatalf("Failed to create logs directory: %v", err)
	}
	if _, err := os.Stat(cfg.RecordsDir); os.IsNotExist(err) {
		// The record directory is owned by the line system; a station can
		// come up before it is mounted
		log.Printf("⚠️ MBCheck directory does not exist: %s", cfg.RecordsDir)
	}

	// 3. Wire stores, sessions and the station event hub
	st := store.New(cfg.RecordsDir, cfg.LogsDir, cfg.UsersFile)
	sessions := pocket.NewManager(st)

	hub := websocket.NewHub()
	go hub.Run()

	// 4. Set up HTTP router
	router := handlers.NewRouter(cfg, st, sessions, hub)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Station server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("⚠️ Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
