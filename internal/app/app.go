// Package app wires configuration, logging, storage and the CoinGecko
// fetcher together for the command-line tools.
package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cryptofetcher/internal/coingecko"
	"cryptofetcher/internal/config"
	"cryptofetcher/internal/coordinator"
	"cryptofetcher/internal/fetcher"
	"cryptofetcher/internal/logger"
	"cryptofetcher/internal/storage"
)

// App holds the components shared by both tools
type App struct {
	Config  *config.Config
	Log     *logger.Logger
	Store   *storage.LocalFS
	Fetcher *coingecko.HistoryFetcher
}

// New builds an App from cfg. console receives the console log sink; nil
// means stderr.
func New(cfg *config.Config, verbose bool, console io.Writer) (*App, error) {
	log, err := logger.Setup(logger.Options{
		Name:       logger.DefaultName,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		Console:    console,
		Verbose:    verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	store := storage.NewLocalFS(cfg.OutputDir, log.Logger)
	hf := coingecko.NewHistoryFetcher(coingecko.Options{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		KeyParam: cfg.KeyParam,
	}, store, log.Logger)

	return &App{
		Config:  cfg,
		Log:     log,
		Store:   store,
		Fetcher: hf,
	}, nil
}

// Coordinator returns a batch coordinator over the App's fetcher
func (a *App) Coordinator() *coordinator.Coordinator {
	return coordinator.New(a.Fetcher, a.Log.Logger)
}

// Close flushes and closes the log file
func (a *App) Close() error {
	return a.Log.Close()
}

// DateArg returns a cobra.PositionalArgs that requires exactly n arguments
// and checks that the one at index is a YYYY-MM-DD date.
func DateArg(n, index int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return err
		}
		if _, err := fetcher.ParseDate(args[index]); err != nil {
			return fmt.Errorf("invalid date: %s, use format YYYY-MM-DD", args[index])
		}
		return nil
	}
}
