package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arttherapy/planandbill-backend/internal/channel"
	"github.com/arttherapy/planandbill-backend/internal/config"
	"github.com/arttherapy/planandbill-backend/internal/delivery"
	"github.com/arttherapy/planandbill-backend/internal/scheduler"
	"github.com/arttherapy/planandbill-backend/internal/service"
	"github.com/arttherapy/planandbill-backend/internal/storage/sqlite"
	"github.com/arttherapy/planandbill-backend/internal/task"
	"github.com/arttherapy/planandbill-backend/pkg/logging"
)

func main() {
	// .env is optional; deployed environments set real variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	// Delivery collaborators, constructed once and passed explicitly.
	push := delivery.NewFCMClient(cfg.Push.URL, cfg.Push.ServerKey)
	mailer := delivery.NewAPIMailer(cfg.Email.URL, cfg.Email.APIKey)

	// Triggered tasks
	reminders := task.NewReminderDispatcher(store, push)
	reports := task.NewMonthlyReporter(store, mailer, cfg.Email.From)
	billing := task.NewBillingCreator(store)

	sched, err := scheduler.New(reminders, reports)
	if err != nil {
		slog.Error("Failed to build scheduler", "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	mux := http.NewServeMux()
	service.NewAppointmentHandler(store, billing).Register(mux)
	service.NewUserHandler(store).Register(mux)
	mux.Handle("POST /channel/"+channel.Name, channel.Default())
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: loggingMiddleware(mux),
	}

	go func() {
		slog.Info("Server starting", "address", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	slog.Info("Shutdown signal received")

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		slog.Warn("Server shutdown error", "error", err)
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
