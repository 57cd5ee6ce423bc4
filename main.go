package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/streamnight/nominations/catalog"
	"github.com/streamnight/nominations/cliparse"
	"github.com/streamnight/nominations/db"
	"github.com/streamnight/nominations/ledger"
	"github.com/streamnight/nominations/middleware"
	"github.com/streamnight/nominations/mirror"
	"github.com/streamnight/nominations/router"
)

func main() {
	var err error

	// Optional .env for local development
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded .env file")
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the ledger database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	// Load the nominee catalog (missing file just means an empty catalog)
	store := ledger.New(dbConn)
	cat := catalog.New()
	cat.Reload(cfg.NomineesFile)

	// Mirror export workbooks
	exporter, err := mirror.New(cfg.DataDir)
	if err != nil {
		slog.Error("mirror initialization failed", "error", err)
		os.Exit(1)
	}

	// Create router
	mux := router.NewRouter(store, cat, exporter, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
