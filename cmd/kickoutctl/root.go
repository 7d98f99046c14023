package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/kickout/internal/adapters/repository"
	"github.com/okian/kickout/internal/config"
	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/pkg/logger"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "kickoutctl",
	Short:         "Kickout board tooling",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		if verbose {
			return logger.SetLevelString("debug")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// Execute runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// loadLog reads the kickout log from the store named by KICKOUT_* config.
func loadLog(ctx context.Context) ([]model.Record, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	store, err := repository.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	log, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load log: %w", err)
	}
	return log, nil
}
