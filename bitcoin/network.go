package bitcoin

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network selects the address prefixes an Address is rendered with.
type Network uint8

const (
	Mainnet Network = iota
	Testnet
	Regtest
	Signet
)

// detectionOrder is the order networks are tried when parsing an address
// string. Testnet and signet share every prefix, so signet strings parse
// as Testnet.
var detectionOrder = []Network{Mainnet, Testnet, Regtest, Signet}

// Params returns the chain parameters for the network.
func (n Network) Params() *chaincfg.Params {
	switch n {
	case Testnet:
		return &chaincfg.TestNet3Params
	case Regtest:
		return &chaincfg.RegressionNetParams
	case Signet:
		return &chaincfg.SigNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Regtest:
		return "regtest"
	case Signet:
		return "signet"
	}
	return fmt.Sprintf("network(%d)", uint8(n))
}

// ParseNetwork accepts the canonical names plus the aliases used by
// bitcoind ("main", "test", "testnet3", "bitcoin").
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mainnet", "main", "bitcoin":
		return Mainnet, nil
	case "testnet", "test", "testnet3":
		return Testnet, nil
	case "regtest":
		return Regtest, nil
	case "signet":
		return Signet, nil
	}
	return 0, fmt.Errorf("unknown bitcoin network %q", s)
}

func (n Network) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Network) UnmarshalText(text []byte) error {
	parsed, err := ParseNetwork(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
