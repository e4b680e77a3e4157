package fetcher

import (
	"resty.dev/v3"
)

const userAgent = "cryptofetcher/1.0"

// NewHTTPClient creates the HTTP client shared by upstream fetchers.
// Requests are issued exactly once: no retries and no timeout beyond the
// transport defaults, so cancellation only comes from the request context.
func NewHTTPClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)
}
