package vault

import (
	"context"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/rpcclient"
	log "github.com/sirupsen/logrus"
	"github.com/vsc-eco/vsc-btc-vault/bitcoin"
)

// Wallet receives derived deposit keys so the node can watch and spend the
// deposit outputs.
type Wallet interface {
	ImportKey(ctx context.Context, key *bitcoin.SecretKey, label string) error
}

// RPCWallet imports keys into a bitcoind wallet over JSON-RPC.
type RPCWallet struct {
	client  *rpcclient.Client
	network bitcoin.Network
	rescan  bool
	logger  *log.Entry
}

// NewRPCWallet creates a new bitcoind wallet client
func NewRPCWallet(cfg *rpcclient.ConnConfig, network bitcoin.Network, rescan bool) (*RPCWallet, error) {
	client, err := rpcclient.New(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create BTC client: %w", err)
	}

	return &RPCWallet{
		client:  client,
		network: network,
		rescan:  rescan,
		logger:  log.WithFields(log.Fields{"module": "wallet", "host": cfg.Host}),
	}, nil
}

// ImportKey imports the key under label. The RPC keeps running in the
// background if ctx ends first.
func (w *RPCWallet) ImportKey(ctx context.Context, key *bitcoin.SecretKey, label string) error {
	wif, err := key.WIF(w.network)
	if err != nil {
		return err
	}
	future := w.client.ImportPrivKeyRescanAsync(wif, label, w.rescan)
	wif.PrivKey.Zero()

	done := make(chan error, 1)
	go func() { done <- future.Receive() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to import key %s: %w", label, err)
		}
		w.logger.WithField("label", label).Debug("imported deposit key")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BlockCount is used as a connectivity check.
func (w *RPCWallet) BlockCount() (int64, error) {
	return w.client.GetBlockCount()
}

func (w *RPCWallet) Close() {
	w.client.Shutdown()
}

// NopWallet records labels without importing anything. It backs dry runs
// and nodes whose wallet is managed out of band.
type NopWallet struct {
	mu     sync.Mutex
	labels []string
}

func (w *NopWallet) ImportKey(_ context.Context, key *bitcoin.SecretKey, label string) error {
	if key.PubKey() == nil {
		return bitcoin.ErrInvalidSecretKey
	}
	w.mu.Lock()
	w.labels = append(w.labels, label)
	w.mu.Unlock()
	return nil
}

func (w *NopWallet) Labels() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.labels...)
}
