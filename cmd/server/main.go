package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tandadapp/backend/internal/auth"
	"github.com/tandadapp/backend/internal/middleware"
	"github.com/tandadapp/backend/internal/payments"
	"github.com/tandadapp/backend/internal/scheduler"
	"github.com/tandadapp/backend/internal/server"
	"github.com/tandadapp/backend/internal/service"
	"github.com/tandadapp/backend/internal/storage/sqlite"
	"github.com/tandadapp/backend/pkg/logging"
)

const tokenDuration = 24 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/tanda.db")
	port := getEnv("PORT", "8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	// Wire the ledger over the store
	svc := service.New(store, scheduler.SystemClock{}, payments.LogSink{})

	jwtManager := auth.NewJWTManager(jwtSecret, tokenDuration)
	authn := auth.NewPasswordAuthenticator(store)

	srv := server.New(svc, authn, jwtManager)

	mux := http.NewServeMux()
	mux.Handle("/api/", srv.Handler())
	mux.Handle("/metrics", promhttp.Handler())

	// Logging, CORS and metrics middleware around the whole surface
	handler := middleware.Logging(middleware.CORS(middleware.Metrics(mux)))

	// Wrap with h2c for HTTP/2 without TLS
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
