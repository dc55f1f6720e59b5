package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/tsoares/amigo-secreto/internal/auth"
	"github.com/tsoares/amigo-secreto/internal/config"
	"github.com/tsoares/amigo-secreto/internal/server"
	"github.com/tsoares/amigo-secreto/internal/service"
	"github.com/tsoares/amigo-secreto/internal/storage"
	"github.com/tsoares/amigo-secreto/internal/storage/jsonfile"
	"github.com/tsoares/amigo-secreto/internal/storage/sqlite"
	"github.com/tsoares/amigo-secreto/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "store", cfg.Store)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.AdminTokenTTL)
	svc := service.NewGroupService(store, jwtManager)
	router := server.New(svc, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func openStore(cfg config.Config) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		return sqlite.New(cfg.DBPath)
	default:
		return jsonfile.New(cfg.DataPath)
	}
}
