package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream is a fake CoinGecko history endpoint that records requested coins
type upstream struct {
	mu     sync.Mutex
	coins  []string
	status map[string]int
	server *httptest.Server
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{status: map[string]int{}}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		coin := parts[len(parts)-2]

		u.mu.Lock()
		u.coins = append(u.coins, coin)
		status, ok := u.status[coin]
		u.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if ok {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"coin not found"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"` + coin + `","market_data":{"current_price":{"usd":1.5}}}`))
	}))
	t.Cleanup(u.server.Close)
	return u
}

func (u *upstream) requested() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.coins...)
}

// setupEnv points configuration at the fake upstream and a scratch directory
func setupEnv(t *testing.T, u *upstream) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("API_KEY_GECKO", "test_gecko_key")
	t.Setenv("COINGECKO_BASE_URL", u.server.URL)
	t.Setenv("CRYPTO_OUTPUT_DIR", filepath.Join(dir, "crypto_data"))
	t.Setenv("CRYPTO_LOG_FILE", filepath.Join(dir, "crypto_fetch.log"))
	return dir
}

func execute(args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

func TestBatch_AllCoins(t *testing.T) {
	u := newUpstream(t)
	dir := setupEnv(t, u)

	require.NoError(t, execute("2017-12-30"))

	assert.Equal(t, []string{"bitcoin", "ethereum", "cardano"}, u.requested())
	for _, coin := range []string{"bitcoin", "ethereum", "cardano"} {
		data, err := os.ReadFile(filepath.Join(dir, "crypto_data", coin+"_2017-12-30.json"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"`+coin+`","market_data":{"current_price":{"usd":1.5}}}`, string(data))
	}

	logData, err := os.ReadFile(filepath.Join(dir, "crypto_fetch.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "all downloads succeeded!")
	assert.NotContains(t, string(logData), "test_gecko_key")
}

func TestBatch_SingleCoin(t *testing.T) {
	u := newUpstream(t)
	setupEnv(t, u)

	require.NoError(t, execute("2020-01-01", "--coin", "ethereum"))
	assert.Equal(t, []string{"ethereum"}, u.requested())
}

func TestBatch_InvalidDate(t *testing.T) {
	u := newUpstream(t)
	setupEnv(t, u)

	err := execute("2021/01/01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use format YYYY-MM-DD")
	assert.Empty(t, u.requested())
}

func TestBatch_UnknownCoin(t *testing.T) {
	u := newUpstream(t)
	setupEnv(t, u)

	err := execute("2020-01-01", "-c", "dogecoin")
	require.Error(t, err)
	assert.Empty(t, u.requested())
}

func TestBatch_FailuresStillExitCleanly(t *testing.T) {
	u := newUpstream(t)
	u.status["bitcoin"] = http.StatusNotFound
	u.status["ethereum"] = http.StatusNotFound
	u.status["cardano"] = http.StatusNotFound
	dir := setupEnv(t, u)

	require.NoError(t, execute("2020-01-01", "-v"))

	entries, err := os.ReadDir(filepath.Join(dir, "crypto_data"))
	assert.True(t, errors.Is(err, os.ErrNotExist) || len(entries) == 0)

	logData, err := os.ReadFile(filepath.Join(dir, "crypto_fetch.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "all downloads failed")
	assert.Contains(t, string(logData), "coin not found")
}

func TestBatch_StrictReportsFailures(t *testing.T) {
	u := newUpstream(t)
	u.status["cardano"] = http.StatusInternalServerError
	setupEnv(t, u)

	err := execute("2020-01-01", "--strict")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBatchFailures))
	assert.Equal(t, "one or more downloads failed: 1 of 3", err.Error())
}

func TestBatch_MissingAPIKey(t *testing.T) {
	u := newUpstream(t)
	dir := setupEnv(t, u)
	t.Setenv("API_KEY_GECKO", "")

	require.NoError(t, execute("2020-01-01"))
	assert.Empty(t, u.requested())

	logData, err := os.ReadFile(filepath.Join(dir, "crypto_fetch.log"))
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(logData), "API key is not configured"))
}
