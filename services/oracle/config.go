package oracle

import (
	"fmt"
	"slices"
)

// PriceConfig declares how the exchange rate of Pair is obtained. Each feed
// maps to a path of pairs that must connect one leg of Pair to the other.
type PriceConfig[C comparable] struct {
	Pair CurrencyPair[C] `json:"pair"`
	// Value overrides the feeds when set.
	Value *float64                       `json:"value,omitempty"`
	Feeds map[FeedName][]CurrencyPair[C] `json:"feeds,omitempty"`
}

// FeedNames returns the configured feeds in sorted order.
func (p PriceConfig[C]) FeedNames() []FeedName {
	names := make([]FeedName, 0, len(p.Feeds))
	for name := range p.Feeds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks every feed path and returns the first failure as a
// *PriceConfigError. Feeds are checked in sorted name order.
func (p PriceConfig[C]) Validate() error {
	for _, name := range p.FeedNames() {
		if err := p.validatePath(p.Feeds[name]); err != nil {
			return &PriceConfigError[C]{Feed: name, Pair: p.Pair, Err: err}
		}
	}
	return nil
}

func (p PriceConfig[C]) validatePath(path []CurrencyPair[C]) error {
	if len(path) == 0 {
		return ErrNoStart
	}

	var end C
	switch first := path[0]; {
	case first.Contains(p.Pair.Base):
		end = p.Pair.Quote
	case first.Contains(p.Pair.Quote):
		end = p.Pair.Base
	default:
		return ErrNoStart
	}

	if !path[len(path)-1].Contains(end) {
		return ErrNoEnd
	}

	for i := 1; i < len(path); i++ {
		left, right := path[i-1], path[i]
		if !left.HasShared(right) {
			return &NoPathError[C]{Left: left, Right: right}
		}
	}
	return nil
}

// OracleConfig is the oracle's configuration file.
type OracleConfig struct {
	Currencies CurrencyStore           `json:"currencies"`
	Prices     []PriceConfig[Currency] `json:"prices"`
}

// Validate checks that every referenced currency is configured, that each
// pair is declared once and that all feed paths are connected.
func (c *OracleConfig) Validate() error {
	seen := make(map[CurrencyPair[Currency]]struct{}, len(c.Prices))
	for _, price := range c.Prices {
		if _, dup := seen[price.Pair]; dup {
			return fmt.Errorf("duplicate price config for %s", price.Pair)
		}
		seen[price.Pair] = struct{}{}

		if err := c.checkCurrencies(price.Pair); err != nil {
			return fmt.Errorf("price %s: %w", price.Pair, err)
		}
		for _, name := range price.FeedNames() {
			for _, hop := range price.Feeds[name] {
				if err := c.checkCurrencies(hop); err != nil {
					return fmt.Errorf("price %s feed %s: %w", price.Pair, name, err)
				}
			}
		}

		if err := price.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *OracleConfig) checkCurrencies(pair CurrencyPair[Currency]) error {
	for _, id := range []Currency{pair.Base, pair.Quote} {
		if !c.Currencies.has(id) {
			return fmt.Errorf("%w: %s", ErrInvalidCurrency, id)
		}
	}
	return nil
}
