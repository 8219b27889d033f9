package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/waritt/billsplit/internal/cache"
	"github.com/waritt/billsplit/internal/calculator"
	"github.com/waritt/billsplit/internal/config"
	"github.com/waritt/billsplit/internal/server"
	"github.com/waritt/billsplit/internal/service"
	"github.com/waritt/billsplit/internal/storage/sqlite"
	"github.com/waritt/billsplit/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}
	logging.Setup()

	cfg := config.Load()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var splitCache cache.Cache
	if cfg.CacheAddr != "" {
		splitCache = cache.NewRedisCache(cfg.CacheAddr)
		slog.Info("Using Redis split cache", "addr", cfg.CacheAddr)
	} else {
		splitCache = cache.NewFIFOCache(cache.DefaultCapacity)
	}

	calc := calculator.New(splitCache)
	svc := service.NewBillService(store, calc)
	handler := server.NewHandler(svc)

	// HTTP/2 without TLS, for clients speaking h2c behind a proxy
	h2cHandler := h2c.NewHandler(handler.Router(), &http2.Server{})

	addr := ":" + cfg.Port
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
