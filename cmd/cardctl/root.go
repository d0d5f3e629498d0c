package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/skillcards/internal/adapters/http/client"
	"github.com/okian/skillcards/internal/adapters/repository"
	app "github.com/okian/skillcards/internal/app"
	"github.com/okian/skillcards/internal/config"
	"github.com/okian/skillcards/internal/domain/model"
	"github.com/okian/skillcards/pkg/logger"
)

// catalog is what the store-backed commands need. Both the service and the
// HTTP client implement it.
type catalog interface {
	ListCards(ctx context.Context) ([]model.Card, error)
	AddCard(ctx context.Context, in app.NewCardInput) (model.Card, error)
	DeleteCard(ctx context.Context, id string) error
	ImportCSV(ctx context.Context, text string) (app.ImportResult, error)
	ImportLegacyCSV(ctx context.Context, text string, delimiter rune) (app.ImportResult, error)
	ImportJSON(ctx context.Context, data []byte) (app.ImportResult, error)
	ExportCSV(ctx context.Context) (string, error)
	ExportJSON(ctx context.Context) ([]byte, error)
}

var (
	_ catalog = (*app.Service)(nil)
	_ catalog = (*client.Client)(nil)
)

type rootFlags struct {
	server  string
	verbose bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:           "cardctl",
		Short:         "Skill card catalog tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			level := "warn"
			if flags.verbose {
				level = "debug"
			}
			return logger.SetLevelString(level)
		},
	}
	root.PersistentFlags().StringVar(&flags.server, "server", "", "Base URL of a running skillcards server (default: use the configured store)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(templateCmd())
	root.AddCommand(convertCmd())
	root.AddCommand(importCmd(&flags))
	root.AddCommand(exportCmd(&flags))
	root.AddCommand(listCmd(&flags))
	root.AddCommand(addCmd(&flags))
	root.AddCommand(rmCmd(&flags))
	return root
}

// withCatalog opens the catalog selected by flags, runs fn and releases it.
func withCatalog(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, c catalog) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if flags.server != "" {
		c, err := client.New(flags.server)
		if err != nil {
			return err
		}
		return fn(ctx, c)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := logger.Get()
	store, err := repository.Open(ctx, repository.Backend{
		Driver:     cfg.StoreDriver,
		SQLitePath: cfg.SQLitePath,
		Redis: repository.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		},
	}, repository.WithNamespace(cfg.Namespace), repository.WithLogger(log.Named("store")))
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	if cfg.StoreDriver == repository.DriverMemory {
		log.Warn(ctx, "memory store: changes are discarded when cardctl exits")
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithStore(store, cfg.StoreDriver),
		app.WithSeedSamples(cfg.SeedSamples),
	)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		return err
	}
	defer svc.Stop()
	return fn(ctx, svc)
}

// writeOutput writes data to path, or to the command's stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // user-facing export file
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
