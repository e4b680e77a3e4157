package fetcher

import (
	"fmt"
	"time"
)

// ISODateLayout is the only date format accepted on the command line
const ISODateLayout = "2006-01-02"

// ParseDate parses s strictly as YYYY-MM-DD. The returned time is midnight UTC
// of that calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}
