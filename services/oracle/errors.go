package oracle

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStart means the first pair of a feed path touches neither leg of
	// the configured pair. Empty paths fail with it too.
	ErrNoStart = errors.New("path does not start at either leg of the pair")

	// ErrNoEnd means the last pair of a feed path does not contain the leg
	// opposite the start.
	ErrNoEnd = errors.New("path does not end at the opposite leg of the pair")

	ErrInvalidCurrency = errors.New("invalid currency")
)

// NoPathError reports two adjacent path pairs that share no currency.
type NoPathError[C comparable] struct {
	Left  CurrencyPair[C]
	Right CurrencyPair[C]
}

func (e *NoPathError[C]) Error() string {
	return fmt.Sprintf("no path between %s and %s", e.Left, e.Right)
}

// PriceConfigError is the first failure found while validating a price
// configuration.
type PriceConfigError[C comparable] struct {
	Feed FeedName
	Pair CurrencyPair[C]
	Err  error
}

func (e *PriceConfigError[C]) Error() string {
	return fmt.Sprintf("invalid %s path for feed %s: %v", e.Pair, e.Feed, e.Err)
}

func (e *PriceConfigError[C]) Unwrap() error {
	return e.Err
}
