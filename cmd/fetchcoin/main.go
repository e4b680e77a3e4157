package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cryptofetcher/internal/app"
	"cryptofetcher/internal/config"
)

type fetchOptions struct {
	verbose bool
	console io.Writer
}

func newRootCmd() *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetchcoin <coin_id> <iso_date>",
		Short: "Download one coin's CoinGecko history snapshot for a date",
		Long: `fetchcoin downloads the historical data of a cryptocurrency for a specific
date from the CoinGecko API and saves it to a local JSON file.

COIN_ID is the CoinGecko coin identifier (e.g. 'bitcoin', 'ethereum').
ISO_DATE is the date in ISO 8601 format (YYYY-MM-DD).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), opts, args[0], args[1])
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable detailed logging")
	return cmd
}

// runFetch reports failures through the log only; the process exit status
// stays zero for every handled outcome.
func runFetch(ctx context.Context, opts *fetchOptions, coinID, isoDate string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a, err := app.New(cfg, opts.verbose, opts.console)
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.Fetcher.Fetch(ctx, coinID, isoDate)
	if !result.OK() && errors.Is(result.Err, context.Canceled) {
		a.Log.Info("interrupted, goodbye!")
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
