package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vsc-eco/vsc-btc-vault/bitcoin"
)

func newDepositCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Deposit address tools",
	}
	cmd.AddCommand(newDepositAddressCmd())
	return cmd
}

func newDepositAddressCmd() *cobra.Command {
	var (
		vaultPub string
		secureID string
		network  string
		format   string
	)
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Derive a deposit address from the vault public key and a secure id",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := bitcoin.ParseNetwork(network)
			if err != nil {
				return err
			}
			codec, err := bitcoin.CodecByName(bitcoin.AddressFormat(format))
			if err != nil {
				return err
			}
			pub, err := bitcoin.ParsePublicKeyHex(vaultPub)
			if err != nil {
				return err
			}
			c, err := bitcoin.SecretKeyFromHex(secureID)
			if err != nil {
				return err
			}
			defer c.Zero()

			depositPub, err := bitcoin.DeriveDepositPublicKey(pub, c)
			if err != nil {
				return err
			}
			payload, err := bitcoin.PayloadFromPublicKey(depositPub)
			if err != nil {
				return err
			}
			addr, err := codec.FromPayload(payload)
			if err != nil {
				return err
			}
			encoded, err := addr.EncodeStr(n)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "address:    %s\n", encoded)
			fmt.Fprintf(out, "public key: %s\n", hex.EncodeToString(depositPub.SerializeCompressed()))
			return nil
		},
	}
	cmd.Flags().StringVar(&vaultPub, "vault-pubkey", "", "Vault public key (hex)")
	cmd.Flags().StringVar(&secureID, "secure-id", "", "Request secure id (32 byte hex)")
	cmd.Flags().StringVar(&network, "network", "mainnet", "Bitcoin network")
	cmd.Flags().StringVar(&format, "format", string(bitcoin.FormatPayload), "Address codec (payload, compact)")
	cmd.MarkFlagRequired("vault-pubkey")
	cmd.MarkFlagRequired("secure-id")
	return cmd
}
