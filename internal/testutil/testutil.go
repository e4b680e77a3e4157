package testutil

import (
	"context"

	"cryptofetcher/internal/fetcher"
)

// MockFetcher is a mock implementation of the Fetcher interface for testing.
// It records the coins it was asked for, in call order.
type MockFetcher struct {
	FetchFunc func(ctx context.Context, coinID, isoDate string) fetcher.Result
	Calls     []string
}

// Fetch implements the Fetcher interface
func (m *MockFetcher) Fetch(ctx context.Context, coinID, isoDate string) fetcher.Result {
	m.Calls = append(m.Calls, coinID)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, coinID, isoDate)
	}
	return fetcher.Result{CoinID: coinID, Date: isoDate, Path: coinID + "_" + isoDate + ".json"}
}

// NewMockFetcher creates a mock fetcher that fails for every coin listed in failing
func NewMockFetcher(failing ...string) *MockFetcher {
	fails := make(map[string]bool, len(failing))
	for _, id := range failing {
		fails[id] = true
	}
	return &MockFetcher{
		FetchFunc: func(ctx context.Context, coinID, isoDate string) fetcher.Result {
			if fails[coinID] {
				return fetcher.Result{
					CoinID: coinID,
					Date:   isoDate,
					Err:    fetcher.ClassifyHTTPError(404, `{"error":"coin not found"}`),
				}
			}
			return fetcher.Result{CoinID: coinID, Date: isoDate, Path: coinID + "_" + isoDate + ".json"}
		},
	}
}
