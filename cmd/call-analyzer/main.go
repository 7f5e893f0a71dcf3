package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mithilai/Customer-Call-Analyzer/internal/analysis"
	"github.com/mithilai/Customer-Call-Analyzer/internal/api"
	"github.com/mithilai/Customer-Call-Analyzer/internal/config"
	"github.com/mithilai/Customer-Call-Analyzer/internal/storage/sqlite"
	"github.com/mithilai/Customer-Call-Analyzer/internal/transcription"
	"github.com/mithilai/Customer-Call-Analyzer/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// .env is optional; the credential may come from the real environment
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := sqlite.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// Schema errors are fatal: the service must not start against a store it
	// cannot shape.
	if err := sqlite.EnsureSchema(db); err != nil {
		return err
	}
	log.Info("Database ready", logger.String("path", cfg.Storage.DBPath))

	reports := sqlite.NewReportStorage(db, log)
	transcriber := transcription.NewClient(cfg.Transcription, cfg.OpenAIAPIKey, log)
	completer := analysis.NewClient(cfg.Analysis, cfg.OpenAIAPIKey, log)
	pipeline := analysis.NewPipeline(transcriber, completer, reports, cfg.Uploads, log)

	router := api.NewRouter(pipeline, reports, cfg, log)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router.Routes(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
