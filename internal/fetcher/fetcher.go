package fetcher

import "context"

// Fetcher is the core interface for downloading one coin's history snapshot.
// Implementations resolve every failure into the returned Result; they never
// panic or return errors out-of-band.
type Fetcher interface {
	// Fetch downloads the snapshot for coinID on isoDate (YYYY-MM-DD) and
	// persists it. The Result reports where it was written or why it was not.
	Fetch(ctx context.Context, coinID, isoDate string) Result
}
