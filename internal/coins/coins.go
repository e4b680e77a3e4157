// Package coins holds the fixed list of coins processed by the batch tool.
package coins

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownCoin is returned when a coin filter is not in the known list
var ErrUnknownCoin = errors.New("unknown coin")

// defaultCoins is processed in this order when no filter is given
var defaultCoins = []string{"bitcoin", "ethereum", "cardano"}

// All returns a copy of the known coin identifiers in declared order
func All() []string {
	return slices.Clone(defaultCoins)
}

// IsKnown reports whether id is one of the known coin identifiers
func IsKnown(id string) bool {
	return slices.Contains(defaultCoins, id)
}

// Resolve returns the work list for a batch run: the single filtered coin,
// or every known coin when filter is empty.
func Resolve(filter string) ([]string, error) {
	if filter == "" {
		return All(), nil
	}
	if !IsKnown(filter) {
		return nil, fmt.Errorf("%w %q, choose from: %s", ErrUnknownCoin, filter, strings.Join(defaultCoins, ", "))
	}
	return []string{filter}, nil
}
