package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const passwordEnv = "VAULT_KEYSTORE_PASSWORD"

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		logJSON  bool
	)

	rootCmd := &cobra.Command{
		Use:           "btc-vault",
		Short:         "CLI for BTC vault operations",
		Long:          `Derive deposit addresses, manage vault keys, validate oracle price paths and run the vault daemon`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			if logJSON {
				log.SetFormatter(&log.JSONFormatter{})
			}
			log.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log as JSON")

	rootCmd.AddCommand(newAddressCmd())
	rootCmd.AddCommand(newDepositCmd())
	rootCmd.AddCommand(newKeystoreCmd())
	rootCmd.AddCommand(newOracleCmd())
	rootCmd.AddCommand(newVaultCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
