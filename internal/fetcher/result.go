package fetcher

// Result represents the outcome of a single fetch attempt.
// One Result is produced per (coin, date) pair and collected by the
// coordinator into the batch summary.
type Result struct {
	// CoinID is the upstream coin identifier that was requested
	CoinID string

	// Date is the ISO date (YYYY-MM-DD) that was requested
	Date string

	// Path is the output file that was written. Empty when Err is set.
	Path string

	// Err contains any error that occurred during the fetch attempt.
	// It is a *FetchError for every classified failure.
	Err error
}

// OK reports whether the fetch attempt succeeded
func (r Result) OK() bool {
	return r.Err == nil
}
