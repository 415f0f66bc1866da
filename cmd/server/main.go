package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/go-library-keeper/internal/config"
	"github.com/MKhiriev/go-library-keeper/internal/handler"
	"github.com/MKhiriev/go-library-keeper/internal/logger"
	"github.com/MKhiriev/go-library-keeper/internal/server"
	"github.com/MKhiriev/go-library-keeper/internal/service"
	"github.com/MKhiriev/go-library-keeper/internal/store"
	"github.com/MKhiriev/go-library-keeper/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("library-server")
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("error setting log level")
	}

	log.Debug().
		Str("address", cfg.Server.HTTPAddress).
		Str("upload_dir", cfg.Storage.Files.UploadDir).
		Dur("session_duration", cfg.App.SessionDuration).
		Msg("received configs")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()
	ctx = log.WithContext(ctx)

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("error migrating database")
	}

	storages, err := store.NewStorages(db, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services := service.NewServices(storages, *cfg, log)

	if _, err = services.AuthService.EnsureLibrarian(ctx); err != nil {
		log.Fatal().Err(err).Msg("error bootstrapping librarian")
	}

	handlers, err := handler.NewHandlers(services, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	var wg sync.WaitGroup
	wg.Go(func() {
		workers.NewWorkers(services, cfg.Workers, log).Run(ctx)
	})

	if err = srv.RunServer(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}

	stop()
	wg.Wait()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
