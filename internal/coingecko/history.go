package coingecko

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"resty.dev/v3"

	"cryptofetcher/internal/fetcher"
)

const (
	// DefaultBaseURL is the public CoinGecko v3 API
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	// DefaultKeyParam is the query parameter carrying a demo-plan API key
	DefaultKeyParam = "x_cg_demo_api_key"

	// APIDateLayout is the DD-MM-YYYY form the history endpoint expects
	APIDateLayout = "02-01-2006"

	historyPath = "/coins/{coinID}/history"
)

// Writer persists a validated JSON document under the given file name and
// returns the full path written.
type Writer interface {
	WriteJSON(name string, data []byte) (string, error)
}

// Options configures a HistoryFetcher
type Options struct {
	APIKey   string
	BaseURL  string
	KeyParam string
}

// HistoryFetcher downloads point-in-time coin snapshots from the
// /coins/{id}/history endpoint and stores them through a Writer.
type HistoryFetcher struct {
	apiKey   string
	baseURL  string
	keyParam string
	client   *resty.Client
	store    Writer
	log      *zap.Logger
}

// NewHistoryFetcher creates a new history snapshot fetcher
func NewHistoryFetcher(opts Options, store Writer, log *zap.Logger) *HistoryFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.KeyParam == "" {
		opts.KeyParam = DefaultKeyParam
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")

	return &HistoryFetcher{
		apiKey:   opts.APIKey,
		baseURL:  baseURL,
		keyParam: opts.KeyParam,
		client:   fetcher.NewHTTPClient(baseURL),
		store:    store,
		log:      log,
	}
}

// APIDate converts an ISO date (YYYY-MM-DD) into the DD-MM-YYYY form used by
// the history endpoint.
func APIDate(isoDate string) (string, error) {
	t, err := fetcher.ParseDate(isoDate)
	if err != nil {
		return "", err
	}
	return t.Format(APIDateLayout), nil
}

// FileName returns the output file name for a coin and ISO date
func FileName(coinID, isoDate string) string {
	return fmt.Sprintf("%s_%s.json", coinID, isoDate)
}

// Fetch retrieves the snapshot for coinID on isoDate and writes it to disk.
// Every failure is logged and returned in the Result.
func (f *HistoryFetcher) Fetch(ctx context.Context, coinID, isoDate string) fetcher.Result {
	result := fetcher.Result{CoinID: coinID, Date: isoDate}
	log := f.log.With(zap.String("coin", coinID), zap.String("date", isoDate))

	if f.apiKey == "" {
		log.Error("API key is not configured", zap.String("env", "API_KEY_GECKO"))
		result.Err = fetcher.NewConfigError("API_KEY_GECKO is not set")
		return result
	}

	log.Info(fmt.Sprintf("starting download for '%s' on '%s'", coinID, isoDate))

	apiDate, err := APIDate(isoDate)
	if err != nil {
		log.Error("invalid date format, use YYYY-MM-DD", zap.Error(err))
		result.Err = fetcher.NewValidationError("invalid date format, use YYYY-MM-DD", err)
		return result
	}
	log.Debug("converted date for API", zap.String("api_date", apiDate))

	body, ferr := f.get(ctx, coinID, apiDate, log)
	if ferr != nil {
		result.Err = ferr
		return result
	}

	log.Debug("decoding JSON response")
	if !gjson.ValidBytes(body) {
		log.Error("could not decode JSON response", zap.Int("bytes", len(body)))
		result.Err = fetcher.NewDecodeError("response body is not valid JSON")
		return result
	}
	log.Debug("decoded JSON response",
		zap.Int("bytes", len(body)),
		zap.String("id", gjson.GetBytes(body, "id").String()),
		zap.String("name", gjson.GetBytes(body, "name").String()),
		zap.Bool("has_market_data", gjson.GetBytes(body, "market_data").Exists()))

	path, err := f.store.WriteJSON(FileName(coinID, isoDate), body)
	if err != nil {
		log.Error("failed to write output file", zap.Error(err))
		result.Err = fetcher.NewPersistenceError(err)
		return result
	}

	log.Info(fmt.Sprintf("success! data saved to '%s'", path))
	result.Path = path
	return result
}

// get issues the single history request and returns the raw body of a 2xx response
func (f *HistoryFetcher) get(ctx context.Context, coinID, apiDate string, log *zap.Logger) ([]byte, *fetcher.FetchError) {
	log.Info("contacting API endpoint", zap.String("url", f.redactedURL(coinID, apiDate)))

	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("coinID", coinID).
		SetQueryParams(map[string]string{
			"date":     apiDate,
			f.keyParam: f.apiKey,
		}).
		Get(historyPath)

	if err != nil {
		ferr := fetcher.NewNetworkError(err)
		log.Error("network or request error", zap.String("type", string(ferr.Type)), zap.Error(err))
		return nil, ferr
	}

	log.Debug("response received",
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)))

	if !resp.IsSuccess() {
		ferr := fetcher.ClassifyHTTPError(resp.StatusCode(), resp.String())
		log.Error("HTTP error",
			zap.Int("status", resp.StatusCode()),
			zap.String("body", ferr.Body))
		return nil, ferr
	}

	log.Info("HTTP request succeeded")
	return resp.Bytes(), nil
}

// redactedURL renders the request URL with the API key masked
func (f *HistoryFetcher) redactedURL(coinID, apiDate string) string {
	return fmt.Sprintf("%s/coins/%s/history?date=%s&%s=***", f.baseURL, url.PathEscape(coinID), apiDate, f.keyParam)
}
