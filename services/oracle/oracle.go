package oracle

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Service serves validated price configuration to the relayer.
type Service struct {
	mu     sync.RWMutex
	config *OracleConfig
	prices map[CurrencyPair[Currency]]PriceConfig[Currency]
	logger *log.Entry
}

// NewService creates a new oracle service from a configuration that has not
// necessarily been validated yet.
func NewService(cfg *OracleConfig) (*Service, error) {
	s := &Service{
		logger: log.WithFields(log.Fields{"module": "oracle"}),
	}
	if err := s.apply(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// NewServiceFromFile loads, validates and serves the file at path.
func NewServiceFromFile(path string) (*Service, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return NewService(cfg)
}

func (s *Service) apply(cfg *OracleConfig) error {
	if cfg == nil {
		return fmt.Errorf("nil oracle config")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("failed to validate oracle config: %w", err)
	}

	prices := make(map[CurrencyPair[Currency]]PriceConfig[Currency], len(cfg.Prices))
	for _, p := range cfg.Prices {
		prices[p.Pair] = p
	}

	s.mu.Lock()
	s.config = cfg
	s.prices = prices
	s.mu.Unlock()

	s.logger.WithFields(log.Fields{
		"currencies": len(cfg.Currencies),
		"prices":     len(cfg.Prices),
	}).Info("oracle config loaded")
	return nil
}

// Reload swaps in the configuration at path. The current configuration is
// kept when the new one fails to load.
func (s *Service) Reload(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	return s.apply(cfg)
}

// Pairs returns every configured pair ordered by base then quote.
func (s *Service) Pairs() []CurrencyPair[Currency] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pairs := make([]CurrencyPair[Currency], 0, len(s.prices))
	for pair := range s.prices {
		pairs = append(pairs, pair)
	}
	slices.SortFunc(pairs, func(a, b CurrencyPair[Currency]) int {
		if c := strings.Compare(string(a.Base), string(b.Base)); c != 0 {
			return c
		}
		return strings.Compare(string(a.Quote), string(b.Quote))
	})
	return pairs
}

func (s *Service) PriceConfig(pair CurrencyPair[Currency]) (PriceConfig[Currency], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[pair]
	return p, ok
}

// Override returns the fixed value configured for pair, if any.
func (s *Service) Override(pair CurrencyPair[Currency]) (float64, bool) {
	p, ok := s.PriceConfig(pair)
	if !ok || p.Value == nil {
		return 0, false
	}
	return *p.Value, true
}

// Feeds returns the feeds used for pair in sorted order.
func (s *Service) Feeds(pair CurrencyPair[Currency]) []FeedName {
	p, ok := s.PriceConfig(pair)
	if !ok {
		return nil
	}
	return p.FeedNames()
}

// Path returns the conversion path feed uses for pair.
func (s *Service) Path(pair CurrencyPair[Currency], feed FeedName) ([]CurrencyPair[Currency], bool) {
	p, ok := s.PriceConfig(pair)
	if !ok {
		return nil, false
	}
	path, ok := p.Feeds[feed]
	return slices.Clone(path), ok
}

func (s *Service) Currencies() CurrencyStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Currencies
}
