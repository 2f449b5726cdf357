package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vsc-eco/vsc-btc-vault/services/oracle"
)

func newOracleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle",
		Short: "Oracle configuration tools",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate <config.json>",
		Short: "Check every price path of an oracle configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := oracle.NewServiceFromFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, pair := range svc.Pairs() {
				if v, ok := svc.Override(pair); ok {
					fmt.Fprintf(out, "%s: fixed %g\n", pair, v)
					continue
				}
				feeds := svc.Feeds(pair)
				names := make([]string, len(feeds))
				for i, f := range feeds {
					names[i] = f.String()
				}
				fmt.Fprintf(out, "%s: %s\n", pair, strings.Join(names, ", "))
			}
			fmt.Fprintln(out, "config OK")
			return nil
		},
	})
	return cmd
}
