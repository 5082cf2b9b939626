package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	sdkcrypto "github.com/wasmdapps/sdk-go/pkg/crypto"
	sdklog "github.com/wasmdapps/sdk-go/pkg/log"
	"github.com/wasmdapps/sdk-go/workflow"
)

const (
	itemRefreshBalance = "Refresh balance"
	itemHitFaucet      = "Hit faucet"
	itemInstantiate    = "Instantiate new contract"
	itemUseContract    = "Use existing contract"
	itemRefreshCount   = "Refresh ping count"
	itemPing           = "Execute ping"
	itemDismiss        = "Dismiss error"
	itemQuit           = "Quit"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Menu driven session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		// balance is shown on entry, like the dApp landing page
		_, _ = a.flow.RefreshBalance(cmd.Context())
		return runMenu(cmd.Context(), a)
	},
}

// menuItems lists the actions available in snapshot s.
func menuItems(s workflow.Snapshot) []string {
	items := []string{itemRefreshBalance, itemHitFaucet, itemInstantiate, itemUseContract}
	if s.Contract != "" {
		items = append(items, itemRefreshCount, itemPing)
	}
	if s.Err != nil {
		items = append(items, itemDismiss)
	}
	return append(items, itemQuit)
}

func runMenu(ctx context.Context, a *app) error {
	for {
		snap := a.flow.Snapshot()
		fmt.Println()
		printStatus(os.Stdout, snap)
		if snap.Err != nil {
			fmt.Println(errorBanner(snap.Err))
		}
		fmt.Println()

		prompt := promptui.Select{
			Label: "Action",
			Items: menuItems(snap),
			Size:  10,
			Templates: &promptui.SelectTemplates{
				Active:   "▸ {{ . | cyan }}",
				Inactive: "  {{ . }}",
				Selected: "✔ {{ . | green }}",
			},
		}
		_, choice, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}
		if choice == itemQuit {
			return nil
		}
		// action errors land in the snapshot and show up as the banner
		if err := dispatch(ctx, a, choice); err != nil {
			sdklog.Debugf(a.logger, "%s: %v", choice, err)
		}
	}
}

func dispatch(ctx context.Context, a *app, choice string) error {
	switch choice {
	case itemRefreshBalance:
		_, err := a.flow.RefreshBalance(ctx)
		return err
	case itemHitFaucet:
		if err := a.flow.HitFaucet(ctx); err != nil {
			return err
		}
		_, err := a.flow.RefreshBalance(ctx)
		return err
	case itemInstantiate:
		_, err := a.flow.Instantiate(ctx)
		return err
	case itemUseContract:
		addr, err := promptContract(a.cfg.Network.AddressPrefix)
		if err != nil {
			return nil
		}
		if err := a.flow.UseContract(ctx, addr); err != nil {
			return err
		}
		_, err = a.flow.QueryPingCount(ctx)
		return err
	case itemRefreshCount:
		_, err := a.flow.QueryPingCount(ctx)
		return err
	case itemPing:
		if _, err := a.flow.ExecutePing(ctx); err != nil {
			return err
		}
		_, err := a.flow.QueryPingCount(ctx)
		return err
	case itemDismiss:
		a.flow.DismissError(ctx)
	}
	return nil
}

func promptContract(prefix string) (string, error) {
	p := promptui.Prompt{
		Label: "Contract address",
		Validate: func(s string) error {
			return sdkcrypto.ValidateAddress(strings.TrimSpace(s), prefix)
		},
	}
	addr, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(addr), nil
}
