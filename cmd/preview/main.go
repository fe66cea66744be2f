package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"covergen/internal/http/handlers"
	"covergen/internal/http/httpapi"
	"covergen/internal/infra"
	"covergen/internal/preview"
	"covergen/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	output := flag.String("output", cfg.OutputDir, "directory holding results.json and covers/")
	flag.Parse()

	logger := infra.NewLogger(cfg.AppEnv)

	store, err := storage.NewFileStore(*output)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open output directory")
	}
	app := handlers.NewApp(store, preview.NewBuilder(store, nil, &logger), &logger)
	server := infra.NewHTTPServer(cfg, httpapi.NewRouter(app), &logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("preview server failed")
		stop()
		os.Exit(1)
	}
}
