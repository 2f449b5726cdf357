package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vsc-eco/vsc-btc-vault/bitcoin"
	"github.com/vsc-eco/vsc-btc-vault/services/vault"
)

func newAddressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Inspect and convert Bitcoin addresses",
	}
	cmd.AddCommand(newAddressDecodeCmd())
	cmd.AddCommand(newAddressEncodeCmd())
	return cmd
}

func newAddressDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <address>",
		Short: "Show the network and payload of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := bitcoin.ParseAddress(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			payload := addr.Payload()
			fmt.Fprintf(out, "network: %s\n", addr.Network())
			fmt.Fprintf(out, "payload: %s\n", payload)

			script, err := payload.Script()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "script:  %x\n", script)

			if compact, err := bitcoin.CompactFromPayload(payload); err == nil {
				fmt.Fprintf(out, "compact: %s\n", compact)
			} else {
				fmt.Fprintln(out, "compact: unsupported")
			}
			return nil
		},
	}
}

func newAddressEncodeCmd() *cobra.Command {
	var (
		network string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "encode <address>",
		Short: "Re-encode an address for another network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := bitcoin.ParseNetwork(network)
			if err != nil {
				return err
			}
			encoded, err := vault.ConvertAddress(args[0], bitcoin.AddressFormat(format), n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
	cmd.Flags().StringVar(&network, "network", "mainnet", "Target network")
	cmd.Flags().StringVar(&format, "format", string(bitcoin.FormatPayload), "Address codec (payload, compact)")
	return cmd
}
