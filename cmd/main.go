package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"raffle/internal/config"
	"raffle/internal/effects"
	"raffle/internal/handlers"
	"raffle/internal/services"
	"raffle/internal/spin"
	"raffle/internal/storage"
	"raffle/internal/theme"
)

func main() {
	// 1. Resolve configuration (flags, env, optional .env file).
	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	defer logger.Init("raffle", cfg.Verbose, false, os.Stdout).Close()

	// 2. Open the key-value store; fall back to in-memory state when no
	// database path is configured.
	var store storage.Store
	if cfg.DatabasePath != "" {
		sqliteStore, err := storage.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			logger.Fatalf("Failed to open database: %v", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
		logger.Infof("Persisting session state to %s", cfg.DatabasePath)
	} else {
		store = storage.NewMemoryStore()
		logger.Info("No database path configured; session state is in-memory only")
	}

	// 3. Initialize the raffle service and its collaborators.
	raffleService := services.NewRaffleService(
		store,
		theme.NewRegistry(),
		effects.NewLogTrigger(),
		spin.NewRealClock(),
		rand.New(rand.NewSource(time.Now().UnixNano())),
	)

	// 4. Set up the gin router with session identification on every route.
	httpHandler := handlers.NewHTTPHandler(raffleService)
	router := gin.Default()
	sessionRoutes := router.Group("/")
	sessionRoutes.Use(httpHandler.SessionMiddleware())
	httpHandler.RegisterRoutes(sessionRoutes)

	// 5. Start the background janitor that reaps inactive sessions.
	go func() {
		for {
			time.Sleep(cfg.JanitorInterval)
			raffleService.CleanUpInactiveSessions()
		}
	}()

	// 6. Run the server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Infof("Server starting on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		logger.Fatalf("Failed to run server: %v", err)
	}
}
