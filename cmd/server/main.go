package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"swords-with-friends/server/config"
	"swords-with-friends/server/handlers"
	"swords-with-friends/server/persistence"
	"swords-with-friends/server/services"
)

func openStorage(cfg *config.Config) (persistence.Storage, error) {
	if cfg.DBType == "postgres" {
		log.Println("Using PostgreSQL persistence")
		return persistence.NewPostgresStore(cfg.DatabaseURL)
	}
	log.Println("Using JSON persistence")
	return persistence.NewJSONStore(cfg.DBFile)
}

// runSweeper removes stale games until ctx is cancelled
func runSweeper(ctx context.Context, gameService *services.GameService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gameService.SweepStaleGames()
		}
	}
}

func main() {
	cfg := config.Load()

	db, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize persistence: %v", err)
	}
	defer db.Close()

	log.Println("Persistence initialized successfully")

	registryOpts := []services.RegistryOption{services.WithGCWindows(cfg.GCIdleTimeout, cfg.GCMaxAge)}
	if cfg.Seed != 0 {
		log.Printf("Using fixed game seed %d", cfg.Seed)
		registryOpts = append(registryOpts, services.WithSeed(cfg.Seed))
	}

	clientManager := handlers.NewClientManager()
	playerService := services.NewPlayerService()
	registry := services.NewGameRegistry(playerService, registryOpts...)
	engine := services.NewTurnEngine(clientManager, db, services.WithAutoResolveDelay(cfg.AutoResolveDelay))
	gameService := services.NewGameService(registry, engine, playerService, clientManager)
	lobby := handlers.NewLobbyHandler(gameService, db, cfg.AllowedOrigins)

	mux := http.NewServeMux()
	lobby.Register(mux)
	lobby.RegisterWebSocket(mux, clientManager)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runSweeper(ctx, gameService, cfg.GCInterval)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
