package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var contractAddr string

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the wallet address and balance",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		// the address is usable even when the balance query fails
		_, balErr := a.flow.RefreshBalance(cmd.Context())
		printStatus(cmd.OutOrStdout(), a.flow.Snapshot())
		return balErr
	},
}

var faucetCmd = &cobra.Command{
	Use:   "faucet",
	Short: "Request test tokens when the wallet is empty",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.flow.HitFaucet(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successLine("faucet credited "+a.flow.Snapshot().Address))
		return nil
	},
}

var instantiateCmd = &cobra.Command{
	Use:   "instantiate",
	Short: "Create a new ping-pong instance from the configured code id",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		addr, err := a.flow.Instantiate(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successLine("contract "+addr))
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Read the ping counter of a contract",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.flow.UseContract(cmd.Context(), contractAddr); err != nil {
			return err
		}
		n, err := a.flow.QueryPingCount(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", n)
		return nil
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Execute a ping and wait for the pong",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.flow.UseContract(cmd.Context(), contractAddr); err != nil {
			return err
		}
		hash, err := a.flow.ExecutePing(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successLine("pong in tx "+hash))
		if _, err := a.flow.QueryPingCount(cmd.Context()); err == nil {
			printStatus(cmd.OutOrStdout(), a.flow.Snapshot())
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{countCmd, pingCmd} {
		c.Flags().StringVar(&contractAddr, "contract", "", "ping-pong contract address")
		_ = c.MarkFlagRequired("contract")
	}
}
