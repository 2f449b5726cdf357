package oracle

import "fmt"

// FeedName identifies an upstream price source.
type FeedName string

const (
	FeedKraken      FeedName = "kraken"
	FeedGateIO      FeedName = "gateio"
	FeedCoinGecko   FeedName = "coingecko"
	FeedDIA         FeedName = "dia"
	FeedBlockstream FeedName = "blockstream"
	FeedBlockCypher FeedName = "blockcypher"
)

var knownFeeds = map[FeedName]struct{}{
	FeedKraken:      {},
	FeedGateIO:      {},
	FeedCoinGecko:   {},
	FeedDIA:         {},
	FeedBlockstream: {},
	FeedBlockCypher: {},
}

func (f FeedName) Valid() bool {
	_, ok := knownFeeds[f]
	return ok
}

func (f FeedName) String() string { return string(f) }

// UnmarshalText rejects feeds the oracle has no client for.
func (f *FeedName) UnmarshalText(text []byte) error {
	name := FeedName(text)
	if !name.Valid() {
		return fmt.Errorf("unknown feed %q", string(text))
	}
	*f = name
	return nil
}

func (f FeedName) MarshalText() ([]byte, error) {
	return []byte(f), nil
}
