package oracle

import (
	"fmt"
	"slices"
)

// Currency is a ticker symbol such as BTC or KSM.
type Currency string

func (c Currency) String() string { return string(c) }

// CurrencyPair is a directional trading pair, base to quote.
type CurrencyPair[C comparable] struct {
	Base  C `json:"base"`
	Quote C `json:"quote"`
}

// Contains reports whether c is either leg of the pair.
func (p CurrencyPair[C]) Contains(c C) bool {
	return p.Base == c || p.Quote == c
}

// HasShared reports whether the pairs share at least one leg.
func (p CurrencyPair[C]) HasShared(other CurrencyPair[C]) bool {
	return p.Contains(other.Base) || p.Contains(other.Quote)
}

func (p CurrencyPair[C]) Invert() CurrencyPair[C] {
	return CurrencyPair[C]{Base: p.Quote, Quote: p.Base}
}

func (p CurrencyPair[C]) String() string {
	return fmt.Sprintf("%v/%v", p.Base, p.Quote)
}

type CurrencyConfig struct {
	Name     string `json:"name"`
	Decimals uint32 `json:"decimals"`
}

// CurrencyInfo resolves display metadata for currency ids.
type CurrencyInfo interface {
	Name(id Currency) (string, error)
	Symbol(id Currency) (string, error)
	Decimals(id Currency) (uint32, error)
}

// CurrencyStore is the configured currency table keyed by id.
type CurrencyStore map[Currency]CurrencyConfig

var _ CurrencyInfo = CurrencyStore{}

func (s CurrencyStore) Name(id Currency) (string, error) {
	cfg, ok := s[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidCurrency, id)
	}
	return cfg.Name, nil
}

// Symbol is the id itself. It does not require the id to be configured.
func (s CurrencyStore) Symbol(id Currency) (string, error) {
	return id.String(), nil
}

func (s CurrencyStore) Decimals(id Currency) (uint32, error) {
	cfg, ok := s[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCurrency, id)
	}
	return cfg.Decimals, nil
}

// Currencies returns the configured ids in sorted order.
func (s CurrencyStore) Currencies() []Currency {
	ids := make([]Currency, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s CurrencyStore) has(id Currency) bool {
	_, ok := s[id]
	return ok
}
