package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nguyentantai21042004/notebolt/internal/config"
	"github.com/nguyentantai21042004/notebolt/internal/generator"
	"github.com/nguyentantai21042004/notebolt/internal/logger"
	"github.com/nguyentantai21042004/notebolt/internal/metrics"
	"github.com/nguyentantai21042004/notebolt/internal/pipeline"
	"github.com/nguyentantai21042004/notebolt/internal/shell"
	"github.com/nguyentantai21042004/notebolt/internal/transcriber"
	"github.com/nguyentantai21042004/notebolt/internal/watcher"
	"github.com/nguyentantai21042004/notebolt/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	watch := flag.Bool("watch", false, "also process lectures dropped into paths.input")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Notebolt: Lecture Notes Generator")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Configuration loaded successfully")

	if err := godotenv.Load(); err != nil {
		log.Debug(ctx, "No .env file found, falling back to environment variables")
	}

	// Create context with cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The token is checked before anything else is set up.
	gen, err := generator.New(ctx, cfg, os.Getenv(cfg.Credential.Env), log)
	if err != nil {
		var credErr *generator.InvalidCredentialError
		if errors.As(err, &credErr) {
			fmt.Fprintf(os.Stderr, "Please set a valid API token in %s: %v\n", cfg.Credential.Env, err)
		} else {
			log.Error(ctx, "Failed to create note generator: %v", err)
		}
		os.Exit(1)
	}

	tr, err := transcriber.Shared(ctx, cfg, executor.New(), log)
	if err != nil {
		log.Error(ctx, "Failed to load speech model: %v", err)
		os.Exit(1)
	}

	m := metrics.New()
	p := pipeline.New(cfg, tr, gen, m, log)

	errChan := make(chan error, 2)

	if *watch {
		if err := ensureDirectories(cfg); err != nil {
			log.Error(ctx, "Failed to create directories: %v", err)
			os.Exit(1)
		}

		w, err := watcher.New(cfg.Paths.Input, p.ProcessFile, log)
		if err != nil {
			log.Error(ctx, "Failed to create watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("watcher: %w", err)
			}
		}()
		log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
	}

	log.Info(ctx, "Output: %s", cfg.Paths.Output)
	log.Info(ctx, "Model: %s (%s), temperature=%.2f top_p=%.2f", cfg.Generator.Model, cfg.Generator.Provider, cfg.Generator.Temperature, cfg.Generator.TopP)

	sh := shell.New(p, os.Stdin, os.Stdout, shell.Options{ExportDir: cfg.Paths.Output}, log)
	go func() {
		errChan <- sh.Run(ctx)
	}()

	// Wait for quit, shutdown signal or error
	select {
	case <-ctx.Done():
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		if err != nil {
			log.Error(ctx, "%v", err)
		}
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn(ctx, "Failed to write metrics: %v", err)
		}
	}

	log.Info(ctx, "Notebolt stopped")
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	for _, dir := range []string{cfg.Paths.Input, cfg.Paths.Output} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
