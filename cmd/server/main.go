package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gwi.com/covalence/internal/api"
	"gwi.com/covalence/internal/auth"
	"gwi.com/covalence/internal/config"
	"gwi.com/covalence/internal/core"
	"gwi.com/covalence/internal/mockdata"
	"gwi.com/covalence/internal/session"
	"gwi.com/covalence/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	// Command line flag for clearing the stored session
	signOutFlag := flag.Bool("signout", false, "Clear the stored session and exit")
	flag.Parse()

	dbStore, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer dbStore.Close()

	sessions := session.NewStore(dbStore, cfg.SessionKey, logger)

	if *signOutFlag {
		if err := sessions.Clear(context.Background()); err != nil {
			logger.Error("failed to clear session", "error", err)
			os.Exit(1)
		}
		logger.Info("stored session cleared")
		return
	}

	if err := cfg.ValidateServer(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	restored, err := sessions.Restore(context.Background())
	if err != nil {
		var decodeErr *session.DecodeError
		if !errors.As(err, &decodeErr) {
			logger.Error("failed to restore session", "error", err)
			os.Exit(1)
		}
		logger.Warn("discarded stored session", "error", err)
	}
	if restored != nil {
		logger.Info("restored session", "id", restored.ID, "role", restored.Role)
	}

	roster, err := auth.NewRoster(time.Now())
	if err != nil {
		logger.Error("failed to build demo roster", "error", err)
		os.Exit(1)
	}
	authService := auth.NewService(roster, sessions, logger)
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	chatService := core.NewChatService(cfg.ResponseDelay, logger)

	mock, err := mockdata.Load(cfg.MockDataPath)
	if err != nil {
		logger.Error("failed to load mock data", "error", err)
		os.Exit(1)
	}

	apiHandler := api.NewAPIHandler(authService, tokens, chatService, mock, logger)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // replies wait out RESPONSE_DELAY
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", serverAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("could not listen", "addr", serverAddr, "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exiting gracefully")
}
