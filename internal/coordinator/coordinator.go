package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cryptofetcher/internal/fetcher"
)

var (
	// ErrInvalidDate is returned by Run when the batch date is not YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid date")
	// ErrNoCoins is returned by Run when the work list is empty
	ErrNoCoins = errors.New("no coins to process")
)

const separatorWidth = 60

// Summary is the outcome of one batch run
type Summary struct {
	RunID     string
	Date      string
	Succeeded int
	Failed    int
	Results   []fetcher.Result
}

// Total returns the number of coins that were attempted
func (s Summary) Total() int {
	return len(s.Results)
}

// Coordinator runs a fetcher over a list of coins, one at a time
type Coordinator struct {
	fetcher fetcher.Fetcher
	log     *zap.Logger
}

// New creates a new Coordinator with the given fetcher
func New(f fetcher.Fetcher, log *zap.Logger) *Coordinator {
	return &Coordinator{
		fetcher: f,
		log:     log,
	}
}

// Run fetches isoDate for every coin in order and reports a summary.
// A failing coin never stops the batch; only cancellation of ctx does, in
// which case the partial summary is returned together with ctx.Err().
func (c *Coordinator) Run(ctx context.Context, isoDate string, coins []string) (Summary, error) {
	if _, err := fetcher.ParseDate(isoDate); err != nil {
		return Summary{}, fmt.Errorf("%w %q, use YYYY-MM-DD", ErrInvalidDate, isoDate)
	}
	if len(coins) == 0 {
		return Summary{}, ErrNoCoins
	}

	summary := Summary{
		RunID:   uuid.NewString(),
		Date:    isoDate,
		Results: make([]fetcher.Result, 0, len(coins)),
	}
	log := c.log.With(zap.String("run_id", summary.RunID))

	log.Info("=== STARTING CRYPTOCURRENCY PROCESSING ===")
	if len(coins) == 1 {
		log.Info("processing single coin: " + coins[0])
	} else {
		log.Info("processing all coins: " + strings.Join(coins, ", "))
	}
	log.Info("target date: " + isoDate)
	log.Info(strings.Repeat("=", separatorWidth))

	for i, coinID := range coins {
		if err := ctx.Err(); err != nil {
			log.Warn("batch interrupted", zap.Int("remaining", len(coins)-i))
			return summary, err
		}

		log.Info(fmt.Sprintf("processing coin %d/%d: %s", i+1, len(coins), strings.ToUpper(coinID)))
		log.Info(strings.Repeat("-", separatorWidth/3*2))

		result := c.fetchOne(ctx, coinID, isoDate, log)
		summary.Results = append(summary.Results, result)

		if result.OK() {
			summary.Succeeded++
			log.Info(strings.ToUpper(coinID) + " - download succeeded")
		} else {
			summary.Failed++
			log.Error(strings.ToUpper(coinID)+" - download failed",
				zap.String("error_type", string(fetcher.TypeOf(result.Err))),
				zap.Error(result.Err))
		}
	}

	c.report(log, summary)
	return summary, ctx.Err()
}

// fetchOne runs a single fetch and converts a panic into a failed Result
func (c *Coordinator) fetchOne(ctx context.Context, coinID, isoDate string, log *zap.Logger) (result fetcher.Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("unexpected error processing coin",
				zap.String("coin", coinID),
				zap.Any("detail", r))
			result = fetcher.Result{
				CoinID: coinID,
				Date:   isoDate,
				Err:    fetcher.NewUnexpectedError(r),
			}
		}
	}()

	return c.fetcher.Fetch(ctx, coinID, isoDate)
}

func (c *Coordinator) report(log *zap.Logger, s Summary) {
	log.Info(strings.Repeat("=", separatorWidth))
	log.Info("FINAL SUMMARY")
	log.Info(strings.Repeat("=", separatorWidth))
	log.Info(fmt.Sprintf("successful downloads: %d", s.Succeeded))
	log.Info(fmt.Sprintf("failed downloads: %d", s.Failed))
	log.Info(fmt.Sprintf("total coins processed: %d", s.Total()))

	switch {
	case s.Failed == 0 && s.Total() > 0:
		log.Info("all downloads succeeded!")
	case s.Succeeded > 0:
		log.Warn("some downloads succeeded, others failed")
	default:
		log.Error("all downloads failed, check the logs for details")
	}

	log.Info("processing complete",
		zap.Int("succeeded", s.Succeeded),
		zap.Int("failed", s.Failed))
}
