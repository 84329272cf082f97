package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Shayan56/StudentSync/internal/api"
	"github.com/Shayan56/StudentSync/internal/shared"
	"github.com/Shayan56/StudentSync/internal/store"
)

func main() {
	log.Println("INFO: Starting StudentSync API...")

	// 1. Load Configuration
	shared.LoadEnv("")
	config, err := shared.LoadAppConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if err := shared.ValidateAppConfig(config); err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}
	if shared.IsDevelopment(config) {
		shared.PrintConfig(config)
	}

	// 2. Connect MongoDB and Bootstrap Indexes
	client, db, err := shared.ConnectMongoDB(&config.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	if err := store.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("FATAL: Failed to create indexes: %v", err)
	}

	// 3. Setup Routes and Middleware
	router := api.SetupRoutes(&api.Dependencies{
		Config: config,
		Stores: store.NewMongoStores(db),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	})

	// 4. Configure Server
	server := &http.Server{
		Addr:         ":" + config.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Start Server in a Goroutine
	go func() {
		log.Printf("INFO: StudentSync API listening on port %s", config.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// 6. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down StudentSync API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: Forced shutdown: %v", err)
	}

	log.Println("INFO: StudentSync API stopped.")
}
