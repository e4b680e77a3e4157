package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cryptofetcher/internal/app"
	"cryptofetcher/internal/coins"
	"cryptofetcher/internal/config"
)

var errBatchFailures = errors.New("one or more downloads failed")

type batchOptions struct {
	coin    string
	verbose bool
	strict  bool
	console io.Writer
}

func newRootCmd() *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "cryptofetcher <date>",
		Short: "Download historical cryptocurrency data from the CoinGecko API",
		Long: `cryptofetcher downloads the CoinGecko history snapshot of each tracked coin
(` + strings.Join(coins.All(), ", ") + `) for one date and saves every response as a JSON file.`,
		Example: `  cryptofetcher 2017-12-30                  # every coin for that date
  cryptofetcher 2020-01-01 --verbose        # with debug logging on the console
  cryptofetcher 2021-03-15 --coin bitcoin   # only bitcoin for that date`,
		Args: app.DateArg(1, 0),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := coins.Resolve(opts.coin)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), opts, args[0])
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&opts.coin, "coin", "c", "", "single coin to process, one of: "+strings.Join(coins.All(), ", "))
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable detailed logging")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with a non-zero status when any download fails")
	return cmd
}

func runBatch(ctx context.Context, opts *batchOptions, date string) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a, err := app.New(cfg, opts.verbose, opts.console)
	if err != nil {
		return err
	}
	defer a.Close()

	log := a.Log.Logger
	defer func() {
		if r := recover(); r != nil {
			log.Error("critical error in batch run", zap.Any("detail", r))
			err = nil
		}
	}()

	log.Info("CRYPTO DATA FETCHER - MULTI-COIN PROCESSING")
	log.Info(strings.Repeat("=", 60))

	work, err := coins.Resolve(opts.coin)
	if err != nil {
		return err
	}

	summary, err := a.Coordinator().Run(ctx, date, work)
	switch {
	case errors.Is(err, context.Canceled):
		log.Info("interrupted, goodbye!")
		return nil
	case err != nil:
		log.Error("unexpected error", zap.Error(err))
		return nil
	}

	log.Info(fmt.Sprintf("files have been saved to the '%s' directory", a.Store.Dir()))
	log.Info(fmt.Sprintf("see '%s' for technical details", cfg.LogFile))

	if opts.strict && summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", errBatchFailures, summary.Failed, summary.Total())
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
