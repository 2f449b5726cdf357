package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vsc-eco/vsc-btc-vault/bitcoin"
)

func keystorePassword() (string, error) {
	password := os.Getenv(passwordEnv)
	if password == "" {
		return "", fmt.Errorf("%s is not set", passwordEnv)
	}
	return password, nil
}

func newKeystoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keystore",
		Short: "Manage the encrypted vault key",
	}
	cmd.AddCommand(newKeystoreNewCmd())
	cmd.AddCommand(newKeystoreShowCmd())
	return cmd
}

func newKeystoreNewCmd() *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a vault key and write it to an encrypted keystore",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := keystorePassword()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("keystore %s already exists", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			key, err := bitcoin.GenerateSecretKey()
			if err != nil {
				return err
			}
			defer key.Zero()

			ks, err := bitcoin.SaveKeystore(path, key, password)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{"path": path}).Info("keystore written")
			fmt.Fprintf(cmd.OutOrStdout(), "public key: %s\n", ks.PublicKey)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "keystore", "vault-keystore.json", "Keystore path")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing keystore")
	return cmd
}

func newKeystoreShowCmd() *cobra.Command {
	var (
		path    string
		network string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Decrypt a keystore and print the vault public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := keystorePassword()
			if err != nil {
				return err
			}
			n, err := bitcoin.ParseNetwork(network)
			if err != nil {
				return err
			}

			key, err := bitcoin.LoadKeystore(path, password)
			if err != nil {
				return err
			}
			defer key.Zero()

			payload, err := bitcoin.PayloadFromPublicKey(key.PubKey())
			if err != nil {
				return err
			}
			addr, err := payload.EncodeStr(n)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "public key: %s\n", hex.EncodeToString(key.PubKey().SerializeCompressed()))
			fmt.Fprintf(out, "address:    %s\n", addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "keystore", "vault-keystore.json", "Keystore path")
	cmd.Flags().StringVar(&network, "network", "mainnet", "Bitcoin network")
	return cmd
}
