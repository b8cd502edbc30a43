package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/medportal/internal/buildinfo"
	"github.com/dmitrijs2005/medportal/internal/client/cli"
	"github.com/dmitrijs2005/medportal/internal/client/client"
	"github.com/dmitrijs2005/medportal/internal/client/config"
	"github.com/dmitrijs2005/medportal/internal/client/credentials"
	"github.com/dmitrijs2005/medportal/internal/client/events"
	"github.com/dmitrijs2005/medportal/internal/client/media"
	"github.com/dmitrijs2005/medportal/internal/client/services"
	"github.com/dmitrijs2005/medportal/internal/filex"
	"github.com/dmitrijs2005/medportal/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	if s, ok := log.(interface{ Sync() error }); ok {
		defer s.Sync()
	}

	if err := filex.EnsureParentDir(cfg.StatePath); err != nil {
		return err
	}
	db, err := client.InitDatabase(ctx, cfg.StatePath)
	if err != nil {
		return fmt.Errorf("error initializing database: %w", err)
	}
	defer db.Close()

	store := credentials.NewPersistent(db, log)
	if err := store.Load(ctx); err != nil {
		return err
	}

	bus := events.NewBus(log)

	policy, err := client.ParseAuthPolicy(cfg.AuthPolicy)
	if err != nil {
		return err
	}
	d, err := client.NewDispatcher(cfg.APIBaseURL, store,
		client.WithAuthPolicy(policy),
		client.WithTimeout(cfg.RequestTimeout),
		client.WithRateLimit(cfg.RateLimit),
		client.WithLogger(log),
		client.WithPublisher(bus),
	)
	if err != nil {
		return err
	}

	uploader, err := media.FromConfig(ctx, cfg, &http.Client{Timeout: cfg.RequestTimeout})
	if err != nil {
		return fmt.Errorf("media backend: %w", err)
	}

	opts := []services.Option{
		services.WithProfileCache(store),
		services.WithEvents(bus),
		services.WithLogger(log),
	}
	if uploader != nil {
		opts = append(opts, services.WithUploader(uploader))
	}
	auth := services.NewAuthService(client.NewHTTPClient(d), store, opts...)

	if _, err := auth.Restore(ctx); err != nil {
		log.Warn(ctx, "previous session could not be resumed", "error", err)
	}

	app := cli.NewApp(auth, bus, log, os.Stdin, os.Stdout)
	app.Run(ctx, cfg.OnlineCheckInterval)
	return nil
}
