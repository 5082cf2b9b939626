package base

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

// Balance returns the balance of addr in denom. An account the chain has
// never seen reports a zero coin.
func (c *Client) Balance(ctx context.Context, addr, denom string) (sdk.Coin, error) {
	if denom == "" {
		denom = c.config.FeeDenom
	}
	bankq := banktypes.NewQueryClient(c.conn)
	resp, err := bankq.Balance(ctx, &banktypes.QueryBalanceRequest{Address: addr, Denom: denom})
	if err != nil {
		return sdk.Coin{}, fmt.Errorf("query balance: %w", err)
	}
	if resp == nil || resp.Balance == nil {
		return sdk.NewInt64Coin(denom, 0), nil
	}
	return *resp.Balance, nil
}
