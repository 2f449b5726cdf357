package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vsc-eco/vsc-btc-vault/bitcoin"
	vaultsdk "github.com/vsc-eco/vsc-btc-vault/sdk/go"
	"github.com/vsc-eco/vsc-btc-vault/services/vault"
)

type serveOptions struct {
	vaultID        string
	network        string
	keystore       string
	addressFormat  string
	btcHost        string
	btcUser        string
	btcPass        string
	rescan         bool
	ledgerEndpoint string
	wsEndpoint     string
	port           string
}

func newVaultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vault",
		Short: "Run the vault daemon",
	}

	var opts serveOptions
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the vault API and follow issue requests on the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runVault(ctx, opts)
		},
	}
	f := serve.Flags()
	f.StringVar(&opts.vaultID, "vault-id", "", "Vault account id on the ledger")
	f.StringVar(&opts.network, "network", "mainnet", "Bitcoin network")
	f.StringVar(&opts.keystore, "keystore", "vault-keystore.json", "Encrypted vault key, password from "+passwordEnv)
	f.StringVar(&opts.addressFormat, "address-format", string(bitcoin.FormatPayload), "Address codec (payload, compact)")
	f.StringVar(&opts.btcHost, "btc-host", "", "Bitcoin RPC host:port, empty to skip wallet imports")
	f.StringVar(&opts.btcUser, "btc-user", "vsc-user", "Bitcoin RPC username")
	f.StringVar(&opts.btcPass, "btc-pass", "vsc-pass", "Bitcoin RPC password")
	f.BoolVar(&opts.rescan, "rescan", false, "Rescan the chain after importing a deposit key")
	f.StringVar(&opts.ledgerEndpoint, "ledger-endpoint", "", "Ledger GraphQL endpoint")
	f.StringVar(&opts.wsEndpoint, "ws-endpoint", "", "Ledger GraphQL websocket endpoint")
	f.StringVar(&opts.port, "port", "8090", "HTTP API port")
	serve.MarkFlagRequired("vault-id")

	cmd.AddCommand(serve)
	return cmd
}

func runVault(ctx context.Context, opts serveOptions) error {
	network, err := bitcoin.ParseNetwork(opts.network)
	if err != nil {
		return err
	}
	password, err := keystorePassword()
	if err != nil {
		return err
	}
	key, err := bitcoin.LoadKeystore(opts.keystore, password)
	if err != nil {
		return err
	}

	var wallet vault.Wallet = &vault.NopWallet{}
	if opts.btcHost != "" {
		rpcWallet, err := vault.NewRPCWallet(&rpcclient.ConnConfig{
			Host:         opts.btcHost,
			User:         opts.btcUser,
			Pass:         opts.btcPass,
			HTTPPostMode: true,
			DisableTLS:   true,
		}, network, opts.rescan)
		if err != nil {
			key.Zero()
			return err
		}
		defer rpcWallet.Close()

		height, err := rpcWallet.BlockCount()
		if err != nil {
			key.Zero()
			return fmt.Errorf("bitcoin node unreachable: %w", err)
		}
		log.WithFields(log.Fields{"host": opts.btcHost, "height": height}).Info("connected to bitcoin node")
		wallet = rpcWallet
	} else {
		log.Warn("no bitcoin node configured, deposit keys will not be imported")
	}

	svc, err := vault.NewService(vault.Config{
		VaultID:       opts.vaultID,
		Network:       network,
		AddressFormat: bitcoin.AddressFormat(opts.addressFormat),
	}, key, wallet)
	if err != nil {
		key.Zero()
		return err
	}
	defer svc.Close()

	server := vault.NewServer(svc, opts.port)
	errCh := make(chan error, 2)
	go func() {
		log.WithField("port", opts.port).Info("starting vault API")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if opts.wsEndpoint != "" && opts.ledgerEndpoint != "" {
		ledger := vaultsdk.NewLedgerClient(opts.ledgerEndpoint, &http.Client{Timeout: 10 * time.Second})
		watcher := vault.NewWatcher(opts.wsEndpoint, svc, ledger)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down vault")
	case err = <-errCh:
		log.WithField("err", err).Error("vault stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if stopErr := server.Stop(shutdownCtx); stopErr != nil {
		log.WithField("err", stopErr).Warn("failed to stop HTTP server")
	}
	return err
}
