package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finspeak/internal/ai"
	"finspeak/internal/config"
	"finspeak/internal/handlers"
	"finspeak/internal/logger"
	"finspeak/internal/service"
	"finspeak/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	cfg, err := config.Load(args, stderr)
	if err != nil {
		return err
	}

	log := logger.New(cfg.LogLevel)

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	client := ai.NewClient(ai.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		AudioModel: cfg.AudioModel,
	}, nil, log)

	expenses := service.NewExpenses(store, client, client, log)
	h := handlers.NewHandlers(store, expenses, client, log)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: setupRouter(h),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupRouter(h *handlers.Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /api/expenses", h.ListExpenses)
	mux.HandleFunc("POST /api/expenses", h.CreateExpense)
	mux.HandleFunc("POST /api/expenses/text", h.CreateExpenseFromText)
	mux.HandleFunc("POST /api/expenses/audio", h.CreateExpenseFromAudio)
	mux.HandleFunc("GET /api/expenses/export", h.ExportExpenses)

	mux.HandleFunc("GET /api/stats", h.Statistics)

	mux.HandleFunc("GET /api/goals", h.ListGoals)
	mux.HandleFunc("POST /api/goals", h.CreateGoal)
	mux.HandleFunc("PUT /api/goals/{id}", h.UpdateGoal)

	mux.HandleFunc("GET /api/profile", h.GetProfile)
	mux.HandleFunc("PUT /api/profile", h.UpdateProfile)

	mux.HandleFunc("POST /api/tips", h.GenerateTips)
	mux.HandleFunc("POST /api/chat", h.Chat)

	return mux
}
