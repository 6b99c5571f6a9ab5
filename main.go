package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fractaloutlook/Incremental/api"
	"github.com/fractaloutlook/Incremental/auth"
	"github.com/fractaloutlook/Incremental/catalog"
	"github.com/fractaloutlook/Incremental/config"
	"github.com/fractaloutlook/Incremental/game"
	"github.com/fractaloutlook/Incremental/loghandler"
	"github.com/fractaloutlook/Incremental/storage"
	"github.com/fractaloutlook/Incremental/ws"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	slog.SetDefault(slog.New(loghandler.NewCompactHandlerWithOptions(os.Stderr, loghandler.Options{
		Level:     loghandler.ParseLevel(cfg.LogLevel),
		ShowLevel: true,
	})))
	if envErr != nil {
		slog.Info("no .env file found; using environment variables", "tag", "main")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("opening telemetry store", "tag", "main", "err", err)
		os.Exit(1)
	}
	var telemetry game.TelemetrySink
	var recorder *storage.Recorder
	if store != nil {
		recorder = storage.NewRecorder(store, 256, 5*time.Second)
		telemetry = recorder
		slog.Info("telemetry enabled", "tag", "main")
	} else {
		slog.Info("DATABASE_URL is not set; telemetry disabled", "tag", "main")
	}

	verifier, err := auth.NewVerifier(cfg.AuthBaseURL)
	if err != nil {
		slog.Error("configuring auth", "tag", "main", "err", err)
		os.Exit(1)
	}
	if verifier.Configured() {
		slog.Info("auth configured", "tag", "main", "base_url", cfg.AuthBaseURL)
	} else {
		slog.Info("AUTH_BASE_URL is not set; sign-in will be refused", "tag", "main")
	}

	slog.Info("configuration", "tag", "main",
		"tick_ms", cfg.TickIntervalMS,
		"combo_window_ms", cfg.Combo.WindowMS,
		"combo_max", cfg.Combo.Max,
		"prestige_min_clicks", cfg.Prestige.MinClicks,
		"event_chance", cfg.Events.Chance,
		"port", cfg.WSPort)

	reg := catalog.Default()
	engine := game.NewEngine(reg, cfg.Prestige)

	hub := ws.NewHub(cfg, engine, verifier, telemetry)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	api.NewHandler(reg, store, verifier).Routes(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WSPort),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http shutdown", "tag", "main", "err", err)
		}
	}()

	slog.Info("incremental server listening", "tag", "main", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server", "tag", "main", "err", err)
	}

	if recorder != nil {
		recorder.Close()
	}
	if store != nil {
		store.Close()
	}
	slog.Info("server stopped", "tag", "main")
}
